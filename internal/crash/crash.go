/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into a crash report plus a draft autosave so an
// unsaved article form survives a hard failure.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"gopkg.in/yaml.v3"

	"blogmanager/internal/domain"
	applog "blogmanager/internal/log"
	"blogmanager/internal/telemetry"
	"blogmanager/internal/version"
)

// exitFn is swapped out in tests so Recover does not kill the test process.
var exitFn = os.Exit

// Recover captures a panic, logs the stacktrace, writes a crash report and
// autosaves the in-flight article draft when one was provided. siteRoot may
// be empty; the report then goes to the temp dir.
//
// Usage: defer func() { crash.Recover(draft, siteRoot) }()
func Recover(draft *domain.ArticleDescriptor, siteRoot string) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(siteRoot, r, stack)
		if draft != nil {
			if path, err := autosaveDraft(draft, siteRoot); err != nil {
				l.Error("draft autosave failed", slog.Any("err", err))
			} else {
				l.Info("draft autosave written", slog.String("path", path))
			}
		}

		fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
		fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
		exitFn(2)
	}
}

func crashDir(siteRoot string) string {
	if siteRoot == "" {
		return os.TempDir()
	}
	dir := filepath.Join(siteRoot, ".bmg", "crash")
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

func writeReport(siteRoot string, panicVal any, stack []byte) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(crashDir(siteRoot), fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Blog Manager Crash Report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if siteRoot != "" {
		fmt.Fprintf(&buf, "SiteRoot: %s\n", siteRoot)
	}
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	// opt-in upload, no-op unless configured
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}

// autosaveDraft writes the unsaved form fields as YAML next to the crash
// report. The file is plain enough to copy values back by hand.
func autosaveDraft(draft *domain.ArticleDescriptor, siteRoot string) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(crashDir(siteRoot), fmt.Sprintf("draft-%s.yaml", stamp))
	data, err := yaml.Marshal(draft)
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, err
	}
	return path, nil
}
