package core

import (
	"context"
	"sync"

	glog "github.com/goliatone/go-logger/glog"
)

type stubExchanger struct {
	mu    sync.Mutex
	calls []string
	data  TokenData
	err   error
}

func (s *stubExchanger) Exchange(_ context.Context, code string) (TokenData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, code)
	if s.err != nil {
		return TokenData{}, s.err
	}
	return s.data, nil
}

type upsertCall struct {
	storeID StoreID
	data    TokenData
}

type memoryTokenStore struct {
	mu        sync.Mutex
	records   map[StoreID]TokenRecord
	upserts   []upsertCall
	upsertErr error
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{records: map[StoreID]TokenRecord{}}
}

func (s *memoryTokenStore) Upsert(_ context.Context, storeID StoreID, data TokenData) (TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts = append(s.upserts, upsertCall{storeID: storeID, data: data})
	if s.upsertErr != nil {
		return TokenRecord{}, s.upsertErr
	}
	record := NewTokenRecord(storeID, data)
	s.records[storeID] = record
	return record, nil
}

func (s *memoryTokenStore) Get(_ context.Context, storeID StoreID) (TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[storeID]
	if !ok {
		return TokenRecord{}, ErrTokenNotFound
	}
	return record, nil
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level string, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: append([]any(nil), args...)})
}

func (l *recordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *recordingLogger) WithContext(context.Context) glog.Logger {
	return l
}

func (l *recordingLogger) last() (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return logEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

func argValue(args []any, key string) (any, bool) {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1], true
		}
	}
	return nil, false
}

var _ glog.Logger = (*recordingLogger)(nil)
