package study

import "time"

// MockNow freezes the service clock until reset is called.
func MockNow(now time.Time) (reset func()) {
	nowFunc = func() time.Time { return now }
	return func() { nowFunc = time.Now }
}

// MockStorageKey makes AddSubjectFile use key until reset is called.
func MockStorageKey(key string) (reset func()) {
	orig := newStorageKey
	newStorageKey = func() string { return key }
	return func() { newStorageKey = orig }
}
