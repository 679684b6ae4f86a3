package prismic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRT(t *testing.T, raw string) RichText {
	t.Helper()
	var rt RichText
	require.NoError(t, json.Unmarshal([]byte(raw), &rt))
	return rt
}

func TestRichText_Text(t *testing.T) {
	rt := decodeRT(t, `[{"type":"heading1","text":"Title"},{"type":"paragraph","text":"Body"}]`)
	assert.Equal(t, "Title Body", rt.Text())
}

func TestRichText_HTML(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "heading and escaped paragraph",
			raw:  `[{"type":"heading2","text":"Hi"},{"type":"paragraph","text":"a < b"}]`,
			want: `<h2>Hi</h2><p>a &lt; b</p>`,
		},
		{
			name: "strong span",
			raw:  `[{"type":"paragraph","text":"Hello world","spans":[{"start":0,"end":5,"type":"strong"}]}]`,
			want: `<p><strong>Hello</strong> world</p>`,
		},
		{
			name: "nested spans",
			raw:  `[{"type":"paragraph","text":"abcd","spans":[{"start":0,"end":4,"type":"em"},{"start":1,"end":2,"type":"strong"}]}]`,
			want: `<p><em>a<strong>b</strong>cd</em></p>`,
		},
		{
			name: "overlapping spans stay nested",
			raw:  `[{"type":"paragraph","text":"abcd","spans":[{"start":0,"end":2,"type":"em"},{"start":1,"end":3,"type":"strong"}]}]`,
			want: `<p><em>a<strong>b</strong></em><strong>c</strong>d</p>`,
		},
		{
			name: "document hyperlink",
			raw: `[{"type":"paragraph","text":"see shoes","spans":[{"start":4,"end":9,"type":"hyperlink",
				"data":{"link_type":"Document","id":"c1","type":"category","uid":"shoes"}}]}]`,
			want: `<p>see <a href="/category/shoes">shoes</a></p>`,
		},
		{
			name: "list items grouped",
			raw:  `[{"type":"list-item","text":"a"},{"type":"list-item","text":"b"},{"type":"o-list-item","text":"c"},{"type":"paragraph","text":"d"}]`,
			want: `<ul><li>a</li><li>b</li></ul><ol><li>c</li></ol><p>d</p>`,
		},
		{
			name: "image block",
			raw:  `[{"type":"image","url":"https://img/x.png","alt":"x\"y"}]`,
			want: `<p class="block-img"><img src="https://img/x.png" alt="x&#34;y"></p>`,
		},
		{
			name: "javascript href is neutralised",
			raw: `[{"type":"paragraph","text":"click","spans":[{"start":0,"end":5,"type":"hyperlink",
				"data":{"link_type":"Web","url":"javascript:alert(document.cookie)"}}]}]`,
			want: `<p><a href="#">click</a></p>`,
		},
		{
			name: "data href is neutralised",
			raw: `[{"type":"paragraph","text":"x","spans":[{"start":0,"end":1,"type":"hyperlink",
				"data":{"link_type":"Web","url":"data:text/html;base64,PHNjcmlwdD4="}}]}]`,
			want: `<p><a href="#">x</a></p>`,
		},
		{
			name: "web and mail hrefs kept",
			raw: `[{"type":"paragraph","text":"ab","spans":[{"start":0,"end":1,"type":"hyperlink",
				"data":{"link_type":"Web","url":"https://example.com/?a=1&b=2"}},{"start":1,"end":2,"type":"hyperlink",
				"data":{"link_type":"Web","url":"mailto:shop@example.com"}}]}]`,
			want: `<p><a href="https://example.com/?a=1&amp;b=2">a</a><a href="mailto:shop@example.com">b</a></p>`,
		},
		{
			name: "unsafe image source",
			raw:  `[{"type":"image","url":"javascript:alert(1)","alt":"x"}]`,
			want: `<p class="block-img"><img src="#" alt="x"></p>`,
		},
		{
			name: "span offsets count utf-16 units",
			raw:  `[{"type":"paragraph","text":"😀 hi there","spans":[{"start":3,"end":5,"type":"strong"}]}]`,
			want: `<p>😀 <strong>hi</strong> there</p>`,
		},
		{
			name: "newline becomes br",
			raw:  `[{"type":"paragraph","text":"a\nb"}]`,
			want: `<p>a<br>b</p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeRT(t, tt.raw).HTML(resolvePath)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
