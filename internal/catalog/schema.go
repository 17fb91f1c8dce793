/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package catalog

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// catalogSchema is the structural contract for books.yml. Validation runs on
// the generic decoded document before it is bound to the typed structs, so a
// hand-edited file with e.g. a string where a list belongs is caught as a
// parse error instead of silently producing half-empty structs.
const catalogSchema = `{
  "type": "object",
  "properties": {
    "books": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "chapters": {
            "type": ["array", "null"],
            "items": {
              "type": "object",
              "required": ["name"],
              "properties": {
                "name": {"type": "string"},
                "sections": {
                  "type": ["array", "null"],
                  "items": {
                    "type": "object",
                    "required": ["name", "url"],
                    "properties": {
                      "name": {"type": "string"},
                      "slug": {"type": "string"},
                      "url": {"type": "string"},
                      "title": {"type": "string"}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// validateCatalogDocument decodes raw YAML generically and checks it against
// catalogSchema. An empty document is fine (first run).
func validateCatalogDocument(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("catalog structure invalid: %s", strings.Join(msgs, "; "))
	}
	return nil
}
