package tui

import (
	"context"
	"strings"
)

// stubDriver replays scripted answers. Running out of answers reports
// ErrAborted, which ends any flow.
type stubDriver struct {
	inputs    []string
	passwords []string
	selectIdx []int
	confirm   []bool

	inputPos   int
	passPos    int
	selectPos  int
	confirmPos int

	inputPrompts  []InputConfig
	selectPrompts []SelectConfig
	infoMessages  []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputPrompts = append(s.inputPrompts, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", ErrAborted
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", ErrAborted
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, ErrAborted
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectPrompts = append(s.selectPrompts, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, ErrAborted
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) saw(substr string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
