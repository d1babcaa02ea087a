package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// readMessages reads the messages in the named file, or stdin if name is empty or "-".
// With isHex, every non-empty line is a hex encoded message; otherwise the whole input is one message.
func readMessages(stdin io.Reader, name string, isHex bool) ([][]byte, error) {
	r := stdin
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	if !isHex {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil
	}

	var msgs [][]byte
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<26)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		data, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("line %v: %w", line, err)
		}
		msgs = append(msgs, data)
	}
	return msgs, scanner.Err()
}
