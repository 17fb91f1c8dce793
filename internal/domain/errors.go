/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "fmt"

// ValidationError signals a blank mandatory descriptor field. It is raised
// before any I/O; nothing has been written when the caller sees it.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q is required", e.Field)
}

// CatalogParseError records a catalog file that exists but could not be
// decoded or failed schema validation. The store recovers by returning an
// empty catalog; callers are expected to log this loudly because continuing
// silently would discard the unreadable catalog on the next save.
type CatalogParseError struct {
	Path string
	Err  error
}

func (e *CatalogParseError) Error() string {
	return fmt.Sprintf("catalog %s unreadable, treating as empty: %v", e.Path, e.Err)
}

func (e *CatalogParseError) Unwrap() error { return e.Err }

// PersistenceError reports a failed write step. Step names which write failed
// ("catalog" or "content") so the user can retry; CatalogUpdated flags a torn
// update where the catalog was already rewritten before the content write
// failed. Retrying the same save is safe: the upsert is idempotent.
type PersistenceError struct {
	Step           string
	Path           string
	CatalogUpdated bool
	Err            error
}

func (e *PersistenceError) Error() string {
	if e.CatalogUpdated {
		return fmt.Sprintf("write %s %s failed after catalog update: %v", e.Step, e.Path, e.Err)
	}
	return fmt.Sprintf("write %s %s failed: %v", e.Step, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
