// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// New creates a backend API implementation talking HTTP to baseURL.
func New(baseURL string, opts Options) API {
	return newHTTP(baseURL, opts)
}
