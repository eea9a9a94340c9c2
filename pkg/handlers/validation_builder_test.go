package handlers

import (
	"testing"

	"github.com/onsi/gomega"
)

func Test_Validation(t *testing.T) {
	shortString := "short"
	with := []string{shortString}
	without := []string{"other string"}
	type args struct {
		field  string
		value  *string
		option ValidateOption
	}

	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "Should throw an error if string value is too short",
			args: args{
				field:  "test-field",
				value:  &shortString,
				option: MinLen(10),
			},
			wantErr: true,
		},
		{
			name: "Should not throw an error if string value is greater than min length",
			args: args{
				field:  "test-field",
				value:  &shortString,
				option: MinLen(1),
			},
			wantErr: false,
		},
		{
			name: "Should throw an error if string value is too long",
			args: args{
				field:  "test-field",
				value:  &shortString,
				option: MaxLen(1),
			},
			wantErr: true,
		},
		{
			name: "Should not throw an error if string value is not longer than max length",
			args: args{
				field:  "test-field",
				value:  &shortString,
				option: MaxLen(10),
			},
			wantErr: false,
		},
		{
			name: "Should throw an error if string is not one of the array elements",
			args: args{
				field:  "test-field",
				value:  &shortString,
				option: IsOneOf(without...),
			},
			wantErr: true,
		},
		{
			name: "Should not throw an error if string is one of the array elements",
			args: args{
				field:  "test-field",
				value:  &shortString,
				option: IsOneOf(with...),
			},
			wantErr: false,
		},
	}

	for _, testcase := range tests {
		tt := testcase
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			err := Validation(tt.args.field, tt.args.value, tt.args.option)()
			g.Expect(err != nil).To(gomega.Equal(tt.wantErr))
		})
	}
}

func Test_WithDefault(t *testing.T) {
	g := gomega.NewWithT(t)

	value := ""
	err := Validation("severity", &value, WithDefault("medium"), IsOneOf("low", "medium", "high", "critical"))()
	g.Expect(err).To(gomega.BeNil())
	g.Expect(value).To(gomega.Equal("medium"))

	// an explicit value is kept
	value = "critical"
	err = Validation("severity", &value, WithDefault("medium"), IsOneOf("low", "medium", "high", "critical"))()
	g.Expect(err).To(gomega.BeNil())
	g.Expect(value).To(gomega.Equal("critical"))
}
