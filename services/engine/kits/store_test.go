// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package kits

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
)

func testKit(topic string, createdAt time.Time) datatypes.StoredKit {
	return datatypes.StoredKit{
		ID:        uuid.NewString(),
		Topic:     topic,
		Tone:      "cinematic",
		Language:  "English",
		CreatedAt: createdAt,
		Kit:       datatypes.EmptyKit(topic, "cinematic", "English"),
	}
}

// TestSaveAndGet verifies a saved kit round-trips by id.
func TestSaveAndGet(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	kit := testKit("roman empire", time.Now())
	require.NoError(t, store.Save(ctx, kit))

	got, err := store.Get(ctx, kit.ID)
	require.NoError(t, err)
	assert.Equal(t, kit.ID, got.ID)
	assert.Equal(t, "roman empire", got.Topic)
}

// TestGetMissing verifies lookup of an unknown id.
func TestGetMissing(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestRecentNewestFirst verifies ordering and the limit.
func TestRecentNewestFirst(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now()
	for i := 0; i < 3; i++ {
		kit := testKit(fmt.Sprintf("topic-%d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, store.Save(ctx, kit))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "topic-2", recent[0].Topic)
	assert.Equal(t, "topic-1", recent[1].Topic)
}

// TestRetentionEvictsOldest verifies the bounded history window.
func TestRetentionEvictsOldest(t *testing.T) {
	store, err := Open(Config{InMemory: true, Retention: 5})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now()
	var oldest datatypes.StoredKit
	for i := 0; i < 7; i++ {
		kit := testKit(fmt.Sprintf("topic-%d", i), base.Add(time.Duration(i)*time.Second))
		if i == 0 {
			oldest = kit
		}
		require.NoError(t, store.Save(ctx, kit))
	}

	recent, err := store.Recent(ctx, 20)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "topic-6", recent[0].Topic)
	assert.Equal(t, "topic-2", recent[4].Topic)

	_, err = store.Get(ctx, oldest.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestSaveCancelledContext verifies context checks before writing.
func TestSaveCancelledContext(t *testing.T) {
	store, err := OpenInMemory()
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.Save(ctx, testKit("never stored", time.Now()))
	assert.Error(t, err)
}
