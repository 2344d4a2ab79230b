package textutil

import "testing"

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"raw object", `  {"a":1}  `, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence with preamble", "Here you go:\n```\n{\"a\":1}\n```\nThanks", `{"a":1}`},
		{"fence inside string kept", "{\"a\":\"```x```\"}", "{\"a\":\"```x```\"}"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.input); got != tt.want {
				t.Errorf("StripCodeFences(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no change", `{"a":[1,2]}`, `{"a":[1,2]}`},
		{"trailing comma in object", `{"a":1,}`, `{"a":1}`},
		{"trailing comma in array with space", "{\"a\":[1,2 ,\n ]}", "{\"a\":[1,2 \n ]}"},
		{"comma in string kept", `{"a":",}"}`, `{"a":",}"}`},
		{"escaped quote in string", `{"a":"x\",}",}`, `{"a":"x\",}"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeJSON(tt.input); got != tt.want {
				t.Errorf("SanitizeJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"preamble", "Here is the analysis:\n{\"a\":1}", `{"a":1}`, true},
		{"preamble and trailer", "Sure! {\"a\":{\"b\":2}} Hope this helps.", `{"a":{"b":2}}`, true},
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"no object", "I cannot help with that.", "", false},
		{"reversed braces", "} nothing {", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractObject(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractObject(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
