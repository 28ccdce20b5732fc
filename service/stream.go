//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

package service

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrEmptyPayload is returned when a response body holds no decodable
// payload.
var ErrEmptyPayload = errors.New("empty response payload")

// dataPrefix marks payload lines in an event-stream response body.
const dataPrefix = "data:"

// DecodePayload normalizes an agent runtime response body. The runtime
// returns either a single JSON document or a server-sent-events style
// stream of "data:" lines; for a stream, the last JSON event wins, with
// any "response" field unwrapped when present.
func DecodePayload(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrEmptyPayload
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed), nil
	}

	var last []byte
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		chunk := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
		if chunk == "" || !json.Valid([]byte(chunk)) {
			continue
		}
		last = []byte(chunk)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if last == nil {
		return nil, ErrEmptyPayload
	}
	if response := gjson.GetBytes(last, "response"); response.Exists() {
		return json.RawMessage(response.Raw), nil
	}
	return json.RawMessage(last), nil
}
