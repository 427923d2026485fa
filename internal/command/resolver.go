// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package command

import (
	"sort"
	"sync"
)

// ProfileEntry is a scripted intent that becomes current at time T.
type ProfileEntry struct {
	T      float64
	Intent Intent
}

// Resolver picks the intent for each tick from two sources: a
// time-indexed profile and a live override. Once any live intent has been
// seen it wins for the rest of the run; the newest live intent replaces
// older ones without queueing.
//
// Safe for concurrent use: live links write from their own goroutines
// while the control loop resolves.
type Resolver struct {
	mu      sync.Mutex
	profile []ProfileEntry
	live    *Intent
	current Intent
}

// NewResolver returns a resolver whose initial intent is the zero Intent
// (disabled, idle).
func NewResolver() *Resolver {
	return &Resolver{}
}

// AddProfile inserts e keeping the profile ordered by time. Entries with
// equal timestamps keep their arrival order, so the later one wins.
func (r *Resolver) AddProfile(e ProfileEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := sort.Search(len(r.profile), func(i int) bool { return r.profile[i].T > e.T })
	r.profile = append(r.profile, ProfileEntry{})
	copy(r.profile[i+1:], r.profile[i:])
	r.profile[i] = e
}

// SetLive records a live intent.
func (r *Resolver) SetLive(in Intent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live = &in
}

// Live reports whether a live intent has been seen.
func (r *Resolver) Live() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live != nil
}

// Resolve returns the intent in force at time t. With no live intent it
// applies the latest profile entry whose timestamp is <= t; when there is
// none the previously resolved intent persists.
func (r *Resolver) Resolve(t float64) Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.live != nil {
		r.current = *r.live
		return r.current
	}
	i := sort.Search(len(r.profile), func(i int) bool { return r.profile[i].T > t })
	if i > 0 {
		r.current = r.profile[i-1].Intent
	}
	return r.current
}
