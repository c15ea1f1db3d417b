// Appranker - App Catalog Recommendation Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/appranker

package recommend

import (
	"testing"
	"time"

	"github.com/tomtom215/appranker/internal/cache"
)

type fakeOwner struct {
	name   string
	client cache.Cacher
}

func (o fakeOwner) Name() string        { return o.name }
func (o fakeOwner) Cache() cache.Cacher { return o.client }

func TestCacheBinding_Unbound(t *testing.T) {
	var b CacheBinding
	b.Store("alice", 1)
	if _, ok := b.Load("alice"); ok {
		t.Error("unbound Load() hit")
	}
}

func TestCacheBinding_Namespaced(t *testing.T) {
	client := cache.New(time.Minute)
	defer client.Close()

	var first, second CacheBinding
	first.Bind(fakeOwner{name: "random", client: client}, "locale")
	second.Bind(fakeOwner{name: "trained", client: client}, "locale")

	first.Store("alice", []int{1})
	if _, ok := second.Load("alice"); ok {
		t.Error("binding of another owner shares entries")
	}
	if _, ok := client.Get("locale:random:alice"); !ok {
		t.Error("entry not stored under locale:random:alice")
	}

	first.Bind(fakeOwner{name: "trained", client: client}, "locale")
	if _, ok := first.Load("alice"); ok {
		t.Error("rebound binding still reads the previous owner's entries")
	}
}
