// SPDX-License-Identifier: MIT

package ui

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/ManuGH/vrachos/fsio"
)

var (
	inMu sync.Mutex
	in   io.Reader = os.Stdin

	labelColor = color.New(color.FgYellow)
)

// SetInput redirects prompt input, mainly for tests.
func SetInput(r io.Reader) {
	inMu.Lock()
	defer inMu.Unlock()
	in = r
}

func input() io.Reader {
	inMu.Lock()
	defer inMu.Unlock()
	return in
}

// Ask prompts for a line of input. An empty answer returns the default.
func Ask(label, defaultVal string) (string, error) {
	if defaultVal != "" {
		fmt.Fprintf(output(), "%s [%s]: ", labelColor.Sprint(label), defaultVal)
	} else {
		fmt.Fprintf(output(), "%s: ", labelColor.Sprint(label))
	}

	reader := bufio.NewReader(input())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF && defaultVal != "" {
			return defaultVal, nil
		}
		return "", fmt.Errorf("read input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal, nil
	}
	return line, nil
}

// AskValue prompts for a typed value, parsing the answer as T. An empty
// answer returns the default.
func AskValue[T bool | int | float64 | string](label string, defaultVal T) (T, error) {
	answer, err := Ask(fmt.Sprintf("[%T] %s", defaultVal, label), fmt.Sprint(defaultVal))
	if err != nil {
		return defaultVal, err
	}

	var parsed T
	switch p := any(&parsed).(type) {
	case *string:
		*p = answer
	case *bool:
		v, err := strconv.ParseBool(answer)
		if err != nil {
			return defaultVal, fmt.Errorf("invalid input %q: %w", answer, err)
		}
		*p = v
	case *int:
		v, err := strconv.Atoi(answer)
		if err != nil {
			return defaultVal, fmt.Errorf("invalid input %q: %w", answer, err)
		}
		*p = v
	case *float64:
		v, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return defaultVal, fmt.Errorf("invalid input %q: %w", answer, err)
		}
		*p = v
	}
	return parsed, nil
}

// EditStruct round-trips v through the user's editor as indented JSON
// and returns the edited value. Fields removed in the editor keep their
// previous values, matching the config merge semantics.
func EditStruct[T any](v T) (T, error) {
	seed, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return v, fmt.Errorf("marshal for editing: %w", err)
	}

	edited, err := fsio.OpenEditor(string(seed) + "\n")
	if err != nil {
		return v, err
	}

	result := v
	if err := json.Unmarshal([]byte(edited), &result); err != nil {
		return v, fmt.Errorf("parse edited JSON: %w", err)
	}
	return result, nil
}
