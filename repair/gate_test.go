package repair

import (
	"errors"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"

	"github.com/lehigh-university-libraries/metafix/format/dublincore"
)

func TestGate(t *testing.T) {
	tests := []struct {
		name     string
		check    CheckFunc
		wantNil  bool
		wantKind string
		wantMsg  string
	}{
		{
			name:    "valid",
			check:   func([]byte) error { return nil },
			wantNil: true,
		},
		{
			name:     "xml syntax error",
			check:    dublincore.Check,
			wantKind: "xml.SyntaxError",
		},
		{
			name: "namespace error",
			check: func([]byte) error {
				return dublincore.Check([]byte(`<metadata><dc:title>T</dc:title></metadata>`))
			},
			wantKind: "dublincore.NamespaceError",
			wantMsg:  "Namespace prefix dc on title is not defined",
		},
		{
			name: "json syntax error",
			check: func(data []byte) error {
				var v any
				return json.Unmarshal(data, &v)
			},
		},
		{
			name:     "plain error",
			check:    func([]byte) error { return errors.New("boom") },
			wantKind: "errors.errorString",
			wantMsg:  "boom",
		},
		{
			name:     "panic",
			check:    func([]byte) error { panic("parser exploded") },
			wantKind: "panic",
			wantMsg:  "parser exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := Gate(tt.check, []byte(`<a><b></a>`))
			if tt.wantNil {
				if diag != nil {
					t.Errorf("got %+v, want nil", diag)
				}
				return
			}
			if diag == nil {
				t.Fatal("got nil diagnostic")
			}
			if diag.Category != CategoryParse {
				t.Errorf("Category: got %q, want %q", diag.Category, CategoryParse)
			}
			if diag.Message == "" || diag.Kind == "" {
				t.Errorf("Kind and Message must be set: %+v", diag)
			}
			if tt.wantKind != "" && diag.Kind != tt.wantKind {
				t.Errorf("Kind: got %q, want %q", diag.Kind, tt.wantKind)
			}
			if !strings.HasPrefix(diag.Message, tt.wantMsg) {
				t.Errorf("Message: got %q, want prefix %q", diag.Message, tt.wantMsg)
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	if got := ErrorKind(nil); got != "" {
		t.Errorf("ErrorKind(nil): got %q", got)
	}
	if got := ErrorKind(&dublincore.NamespaceError{}); got != "dublincore.NamespaceError" {
		t.Errorf("ErrorKind: got %q", got)
	}
}
