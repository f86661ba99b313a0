// Package io loads binary memory images, and records execution traces as
// JSON lines.
package io
