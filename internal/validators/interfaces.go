// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks entities received by the reference sync server
// before they reach storage.
//
// A Validator accepts optional field names (see the Field* constants) that
// restrict which checks run. The collection service uses this to require a
// server id on updates but not on creates.
package validators

import "context"

// Validator validates v. When fields are given, only the named checks run;
// unknown field names are an error.
type Validator interface {
	Validate(ctx context.Context, v any, fields ...string) error
}
