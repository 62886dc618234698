package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestKindAndStatus(t *testing.T) {
	Convey("错误分类与状态码映射", t, func() {
		tests := []struct {
			err    error
			kind   Kind
			status int
		}{
			{Validation("bad"), KindValidation, http.StatusBadRequest},
			{Authentication("denied"), KindAuthentication, http.StatusUnauthorized},
			{Database("io", errors.New("disk full")), KindDatabase, http.StatusInternalServerError},
			{errors.New("plain"), KindUnknown, http.StatusInternalServerError},
		}
		for _, tt := range tests {
			So(KindOf(tt.err), ShouldEqual, tt.kind)
			So(HTTPStatus(tt.err), ShouldEqual, tt.status)
		}
	})

	Convey("包装后的错误仍可识别", t, func() {
		sentinel := Authentication("انتهت الجلسة")
		wrapped := fmt.Errorf("validate: %w", sentinel)
		So(errors.Is(wrapped, sentinel), ShouldBeTrue)
		So(KindOf(wrapped), ShouldEqual, KindAuthentication)
		So(Message(wrapped), ShouldEqual, "انتهت الجلسة")
	})

	Convey("Database 错误保留底层原因", t, func() {
		cause := errors.New("permission denied")
		err := Database("فشل حفظ البيانات", cause)
		So(errors.Is(err, cause), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "permission denied")
	})
}
