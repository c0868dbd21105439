// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package kits persists generated production kits.
//
// The store keeps a bounded history window: only the newest N kits
// survive a save, so the demo sidebar stays small and the database never
// grows unbounded. BadgerDB provides the embedded storage.
package kits

import (
	"context"
	"errors"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
)

// ErrNotFound is returned when a kit id has no stored entry, including
// entries evicted by the retention window.
var ErrNotFound = errors.New("kit not found")

// DefaultRetention is how many kits survive in history.
const DefaultRetention = 5

// Store is the persistence collaborator for generated kits.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use by HTTP handlers.
type Store interface {
	// Save persists a kit and prunes history beyond the retention window.
	Save(ctx context.Context, kit datatypes.StoredKit) error

	// Recent returns up to limit kits, newest first.
	Recent(ctx context.Context, limit int) ([]datatypes.StoredKit, error)

	// Get loads one kit by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (datatypes.StoredKit, error)

	Close() error
}
