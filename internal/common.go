// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package internal holds small definitions shared across the module: an
// Error type, and the Debug and GoFuzz constants declared in gofuzz.go
// under the gofuzz build tag.
package internal

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "compress: " + string(e) }
