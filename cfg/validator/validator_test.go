package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testOptions struct {
	Policy string `validate:"oneof=reject truncate"`
	Name   string `validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		object  any
		wantErr bool
	}{
		{"合法结构体", &testOptions{Policy: "reject", Name: "t"}, false},
		{"枚举不合法", &testOptions{Policy: "drop", Name: "t"}, true},
		{"缺少必填字段", &testOptions{Policy: "truncate"}, true},
		{"结构体值", testOptions{Policy: "reject", Name: "t"}, false},
		{"nil", nil, false},
		{"nil 指针", (*testOptions)(nil), false},
		{"非结构体", map[string]string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.object)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
