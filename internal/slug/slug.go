/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package slug derives URL- and filesystem-safe identifiers from article
// titles. The same title always yields the same slug; catalog upserts and
// content filenames rely on that.
package slug

import (
	"net/url"
	"strings"
)

// replacements maps domain vocabulary that would otherwise be lost by ASCII
// folding to stable ASCII equivalents. Applied after lowercasing, longest
// entries first, so e.g. "流水灯" wins over "灯".
var replacements = []struct{ from, to string }{
	{"单片机", "mcu"},
	{"嵌入式", "embedded"},
	{"流水灯", "led-blink"},
	{"定时器", "timer"},
	{"看门狗", "watchdog"},
	{"寄存器", "register"},
	{"中断", "interrupt"},
	{"串口", "uart"},
	{"时钟", "clock"},
	{"按键", "button"},
	{"外设", "peripheral"},
	{"配置", "config"},
	{"入门", "intro"},
	{"灯", "led"},
	{"c++", "cpp"},
	{"c#", "csharp"},
	{"&", "and"},
	{"µ", "u"},
	{"μ", "u"},
}

// Slug normalizes text into [a-z0-9-]. It lowercases, applies the
// replacements table, folds every other character to '-', collapses dash
// runs and strips leading/trailing dashes. When nothing survives (a title
// made entirely of unmapped non-ASCII text), the original trimmed text is
// percent-encoded instead so the result is never empty and stays legal in
// URLs and filenames.
func Slug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, r := range replacements {
		s = strings.ReplaceAll(s, r.from, r.to)
	}

	var b strings.Builder
	b.Grow(len(s))
	lastDash := true // suppresses a leading dash
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			if r == '-' {
				if lastDash {
					continue
				}
				lastDash = true
			} else {
				lastDash = false
			}
			b.WriteRune(r)
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return url.PathEscape(strings.TrimSpace(text))
	}
	return out
}
