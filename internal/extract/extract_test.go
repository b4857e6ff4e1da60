package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"happy path", `{"choices":[{"message":{"content":"Hello world"}}]}`, "Hello world"},
		{"full completion", `{
			"id": "chatcmpl-123",
			"object": "chat.completion",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "Deploys went fine."},
				"finish_reason": "stop"
			}]
		}`, "Deploys went fine."},
		{"escaped quotes decoded", `{"choices":[{"message":{"content":"he said \"hi\"\nbye"}}]}`, "he said \"hi\"\nbye"},
		{"only first choice", `{"choices":[{"message":{"content":"first"}},{"message":{"content":"second"}}]}`, "first"},
		{"no marker", `{"error":{"message":"bad key"}}`, ""},
		{"bare content field", `{"content": "he said \"hi\""}`, ""},
		{"empty choices", `{"choices":[]}`, ""},
		{"null content", `{"choices":[{"message":{"content":null}}]}`, ""},
		{"array content", `{"choices":[{"message":{"content":[{"type":"text","text":"hi"}]}}]}`, ""},
		{"numeric content", `{"choices":[{"message":{"content":42}}]}`, ""},
		{"object content", `{"choices":[{"message":{"content":{"text":"hi"}}}]}`, ""},
		{"empty string content", `{"choices":[{"message":{"content":""}}]}`, ""},
		{"not json", `upstream timeout`, ""},
		{"empty body", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, JSON(tc.body))
		})
	}
}

func TestScan(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"happy path", `{"choices":[{"message":{"content":"Hello world"}}]}`, "Hello world"},
		{"space after colon", `{"content": "spaced"}`, "spaced"},
		{"escaped quote truncates", `{"content": "he said \"hi\""}`, `he said \`},
		{"escapes kept verbatim", `{"content":"line1\nline2"}`, `line1\nline2`},
		{"no marker", `{"choices":[]}`, ""},
		{"no opening quote", `{"content": null}`, ""},
		{"no closing quote", `{"content":"unterminated`, ""},
		{"first marker wins", `{"content":"a","content":"b"}`, "a"},
		{"empty body", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Scan(tc.body))
		})
	}
}

func TestForMode(t *testing.T) {
	body := `{"content": "he said \"hi\""}`
	require.Equal(t, `he said \`, ForMode("scan")(body))
	require.Equal(t, `he said \`, ForMode(" SCAN ")(body))
	require.Equal(t, "", ForMode("json")(body))
	require.Equal(t, "", ForMode("")(body))
}
