// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package util provides small shared helpers for the widgetchat application.

The package contains:
  - Atomic file writing with fsync for crash-safe persistence
  - Rune- and width-aware string truncation for UTF-8 safety

Everything heavier lives in the package that needs it.
*/
package util
