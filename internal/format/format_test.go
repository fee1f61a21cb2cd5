package format

import "testing"

func TestToHTML_Text(t *testing.T) {
	got := ToHTML("a < b\nsecond line", Text)
	want := "a &lt; b<br />second line"
	if got != want {
		t.Errorf("ToHTML(text) = %q, want %q", got, want)
	}
}

func TestToHTML_UnknownFormatEscapes(t *testing.T) {
	got := ToHTML("<b>bold</b>", "bbcode")
	if got != "&lt;b&gt;bold&lt;/b&gt;" {
		t.Errorf("ToHTML(unknown) = %q", got)
	}
}

func TestToHTML_HTMLCaseInsensitive(t *testing.T) {
	got := ToHTML("<b>bold</b>", "Html")
	if got != "<b>bold</b>" {
		t.Errorf("ToHTML(Html) = %q", got)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello", "hello"},
		{"allowed tags kept", "<p><strong>x</strong></p>", "<p><strong>x</strong></p>"},
		{"unknown tag stripped", "<div>x</div>", "x"},
		{"script dropped with content", "a<script>alert(1)</script>b", "ab"},
		{"event attribute removed", `<b onclick="x()">y</b>`, "<b>y</b>"},
		{"safe link", `<a href="https://e.com/a?b=1&c=2">l</a>`, `<a href="https://e.com/a?b=1&amp;c=2" rel="nofollow">l</a>`},
		{"javascript link dropped", `<a href="javascript:alert(1)">l</a>`, `<a rel="nofollow">l</a>`},
		{"void tags self-close", "a<br>b", "a<br />b"},
		{"image attributes", `<img src="/i.png" alt="pic" width="3">`, `<img src="/i.png" alt="pic" />`},
		{"text escaped", "1 &lt; 2 & 3", "1 &lt; 2 &amp; 3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.in); got != tc.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCondense(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a<br /><br />\n<br>b", "a<br />b"},
		{`<img src="x" /> <br /> <img src="y" />`, `<img src="x" /> <img src="y" />`},
		{"  spaced  ", "spaced"},
		{"no breaks", "no breaks"},
	}
	for _, tc := range tests {
		if got := Condense(tc.in); got != tc.want {
			t.Errorf("Condense(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
