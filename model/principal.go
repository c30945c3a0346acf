/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"encoding/base32"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"strings"
)

// Principal is the textual identity of a ledger participant:
// base32(crc32(raw) || raw), lower case, in dash separated groups of five.
type Principal string

const (
	// AnonymousPrincipal stands in as the counterparty of self recorded notes.
	AnonymousPrincipal Principal = "2vxsx-fae"

	maxPrincipalBytes = 29
)

var (
	ErrEmptyPrincipal     = errors.New("principal is empty")
	ErrMalformedPrincipal = errors.New("principal is malformed")

	principalEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// PrincipalFromBytes renders raw identity bytes in textual form.
func PrincipalFromBytes(raw []byte) Principal {
	buf := make([]byte, 4, 4+len(raw))
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE(raw))
	buf = append(buf, raw...)

	encoded := strings.ToLower(principalEncoding.EncodeToString(buf))
	var sb strings.Builder
	for i := 0; i < len(encoded); i += 5 {
		if i > 0 {
			sb.WriteByte('-')
		}
		end := i + 5
		if end > len(encoded) {
			end = len(encoded)
		}
		sb.WriteString(encoded[i:end])
	}
	return Principal(sb.String())
}

// ParsePrincipal validates the grouping and checksum of a textual principal.
func ParsePrincipal(text string) (Principal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyPrincipal
	}

	groups := strings.Split(text, "-")
	for i, g := range groups {
		if len(g) == 0 || len(g) > 5 || (i < len(groups)-1 && len(g) != 5) {
			return "", ErrMalformedPrincipal
		}
	}

	decoded, err := principalEncoding.DecodeString(strings.ToUpper(strings.Join(groups, "")))
	if err != nil || len(decoded) < 4 || len(decoded) > 4+maxPrincipalBytes {
		return "", ErrMalformedPrincipal
	}

	raw := decoded[4:]
	if binary.BigEndian.Uint32(decoded[:4]) != crc32.ChecksumIEEE(raw) {
		return "", ErrMalformedPrincipal
	}

	p := PrincipalFromBytes(raw)
	if string(p) != strings.ToLower(text) {
		return "", ErrMalformedPrincipal
	}
	return p, nil
}

func (p Principal) IsAnonymous() bool {
	return p == AnonymousPrincipal
}

func (p Principal) String() string {
	return string(p)
}
