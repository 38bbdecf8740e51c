/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package keylock provides a mutex scoped to string keys.
//
// Callers that contend on the same key are granted ownership in the order
// they arrived. Callers that need several keys get them in sorted order, so
// two callers asking for the same set in different orders cannot deadlock.
// Ownership is handed from the releasing goroutine straight to the next
// waiter; a contended key is never observed free in between.
//
// The lock is not re-entrant. Acquiring a key the caller already holds
// blocks forever.
package keylock

import (
	"fmt"
	"sort"
	"sync"
)

// waitQueue holds the goroutines blocked on one held key, oldest first.
type waitQueue struct {
	waiters []chan struct{}
}

// KeyLock is safe for concurrent use. The zero value is not usable; call New.
type KeyLock struct {
	mu   sync.Mutex
	held map[string]*waitQueue // key present iff some caller owns it
}

func New() *KeyLock {
	return &KeyLock{held: make(map[string]*waitQueue)}
}

// Acquire blocks until the caller owns every key. Duplicate keys are
// collapsed. Keys are taken one at a time in lexicographic order.
func (l *KeyLock) Acquire(keys ...string) {
	for _, key := range normalize(keys) {
		l.acquireKey(key)
	}
}

// Release gives up every key. It must be called exactly once for each
// successful Acquire with the same key set.
func (l *KeyLock) Release(keys ...string) {
	ordered := normalize(keys)
	for i := len(ordered) - 1; i >= 0; i-- {
		l.releaseKey(ordered[i])
	}
}

// Held reports whether key is currently owned.
func (l *KeyLock) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.held[key]
	return ok
}

// Pending returns the number of callers queued behind the owner of key.
func (l *KeyLock) Pending(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if q, ok := l.held[key]; ok {
		return len(q.waiters)
	}
	return 0
}

func (l *KeyLock) acquireKey(key string) {
	l.mu.Lock()
	q, ok := l.held[key]
	if !ok {
		l.held[key] = &waitQueue{}
		l.mu.Unlock()
		return
	}

	wake := make(chan struct{})
	q.waiters = append(q.waiters, wake)
	l.mu.Unlock()

	// The releaser leaves the key in the table and closes wake, so
	// ownership is already ours when this returns.
	<-wake
}

func (l *KeyLock) releaseKey(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	q, ok := l.held[key]
	if !ok {
		panic(fmt.Sprintf("keylock: release of unheld key %q", key))
	}

	if len(q.waiters) == 0 {
		delete(l.held, key)
		return
	}

	next := q.waiters[0]
	q.waiters[0] = nil
	q.waiters = q.waiters[1:]
	close(next)
}

func normalize(keys []string) []string {
	if len(keys) <= 1 {
		return keys
	}

	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
