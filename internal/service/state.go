package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// StateFileName은 서비스 상태 파일 이름이다.
const StateFileName = "services.json"

// Status는 서비스의 마지막으로 알려진 상태다.
type Status string

const (
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
	StatusFailed  Status = "failed"
	StatusUnknown Status = "unknown"
)

// State는 관리 중인 서비스들의 상태 파일이다.
type State struct {
	Version  int               `json:"version"`
	Services map[string]Record `json:"services"`
}

// Record는 서비스 하나의 상태 항목이다.
type Record struct {
	Status        Status `json:"status"`
	PID           int    `json:"pid,omitempty"`
	Enabled       bool   `json:"enabled"`
	StartedAt     string `json:"started_at,omitempty"`
	LastCheckedAt string `json:"last_checked_at,omitempty"`
}

// NewState는 빈 상태를 생성한다.
func NewState() *State {
	return &State{Version: 1, Services: make(map[string]Record)}
}

// LoadState는 상태 파일을 파싱한다. 파일 없음/파싱 실패 시 빈 상태 반환 (graceful).
func LoadState(fs afero.Fs, path string) (*State, error) {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("service.LoadState: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return NewState(), nil
	}
	if s.Services == nil {
		s.Services = make(map[string]Record)
	}
	return &s, nil
}

// Get은 서비스 항목을 조회한다.
func (s *State) Get(name string) (Record, bool) {
	r, ok := s.Services[name]
	return r, ok
}

// Set은 서비스 항목을 추가하거나 갱신한다.
func (s *State) Set(name string, r Record) {
	s.Services[name] = r
}

// Names는 등록된 서비스 이름을 정렬해 반환한다.
func (s *State) Names() []string {
	names := make([]string, 0, len(s.Services))
	for name := range s.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save는 상태를 JSON 파일로 저장한다 (0600 권한).
func (s *State) Save(fs afero.Fs, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("service.Save: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("service.Save: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0600); err != nil {
		return fmt.Errorf("service.Save: %w", err)
	}
	return nil
}
