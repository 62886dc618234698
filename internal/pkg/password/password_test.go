package password

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/crypto/bcrypt"
)

// 测试用低成本参数
var testParams = Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

func TestHasher(t *testing.T) {
	Convey("argon2id 哈希与校验", t, func() {
		h := NewHasher(testParams)

		hash, err := h.Hash("TestPass123")
		So(err, ShouldBeNil)
		So(hash, ShouldStartWith, "$argon2id$v=19$m=1024,t=1,p=1$")
		So(hash, ShouldNotContainSubstring, "TestPass123")

		So(h.Verify("TestPass123", hash), ShouldBeTrue)
		So(h.Verify("TestPass124", hash), ShouldBeFalse)
		So(h.NeedsRehash(hash), ShouldBeFalse)

		Convey("相同密码每次加盐不同", func() {
			other, err := h.Hash("TestPass123")
			So(err, ShouldBeNil)
			So(other, ShouldNotEqual, hash)
		})

		Convey("参数变化后需要重新哈希", func() {
			So(NewHasher(Params{Time: 2, Memory: 1024, Threads: 1, KeyLen: 16, SaltLen: 8}).NeedsRehash(hash), ShouldBeTrue)
		})

		Convey("畸形哈希校验失败", func() {
			So(h.Verify("TestPass123", "$argon2id$broken"), ShouldBeFalse)
			So(h.Verify("TestPass123", strings.Replace(hash, "v=19", "v=18", 1)), ShouldBeFalse)
		})
	})

	Convey("兼容 bcrypt 历史哈希", t, func() {
		legacy, err := bcrypt.GenerateFromPassword([]byte("OldPass123"), bcrypt.MinCost)
		So(err, ShouldBeNil)

		h := NewHasher(testParams)
		So(h.Verify("OldPass123", string(legacy)), ShouldBeTrue)
		So(h.Verify("oldpass123", string(legacy)), ShouldBeFalse)
		So(h.NeedsRehash(string(legacy)), ShouldBeTrue)
	})
}

func TestIsStrong(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"TestPass123", true},
		{"Abcdefg1", true},
		{"Abcdef1", false},     // 少于8位
		{"abcdefgh1", false},   // 缺少大写
		{"ABCDEFGH1", false},   // 缺少小写
		{"Abcdefghi", false},   // 缺少数字
		{"كلمةسرAa1", true},    // 阿拉伯字符计入长度
		{"Pass 1234 x", true},  // 不要求特殊字符
		{"", false},
	}

	for _, tt := range tests {
		if got := IsStrong(tt.password); got != tt.want {
			t.Errorf("IsStrong(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}
