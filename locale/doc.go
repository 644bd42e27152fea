// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package locale translates voter-facing messages with go-i18n.
//
// English strings live in the message definitions; other languages are
// loaded from active.<lang>.json files in the directory given by
// LOCALES_DIR. Localizers are picked per request from Accept-Language.
package locale
