package textutil

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExcerpt(t *testing.T) {
	Convey("Excerpt 生成摘要", t, func() {
		Convey("短文本原样返回", func() {
			So(Excerpt("Body text"), ShouldEqual, "Body text")
		})

		Convey("移除 HTML 标签", func() {
			So(Excerpt("<p>مرحبا <b>بالعالم</b></p><script>alert(1)</script>"), ShouldEqual, "مرحبا بالعالم")
		})

		Convey("长文本截断到150字符并追加省略号", func() {
			long := strings.Repeat("ق", 200)
			got := Excerpt(long)
			So(got, ShouldEqual, strings.Repeat("ق", 150)+"...")
		})

		Convey("恰好150字符不追加省略号", func() {
			exact := strings.Repeat("a", 150)
			So(Excerpt(exact), ShouldEqual, exact)
		})
	})
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"tag1,tag2", []string{"tag1", "tag2"}},
		{" قراءة , كتب ,", []string{"قراءة", "كتب"}},
		{"", []string{}},
		{"solo", []string{"solo"}},
	}
	for _, tt := range tests {
		got := SplitTags(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("SplitTags(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Hello World", "WORLD") {
		t.Error("ContainsFold should ignore case")
	}
	if !ContainsFold("أحب القراءة كثيراً", "القراءة") {
		t.Error("ContainsFold should match Arabic substrings")
	}
	if ContainsFold("abc", "d") {
		t.Error("ContainsFold matched a missing substring")
	}
}
