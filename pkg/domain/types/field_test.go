package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestFieldType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		fieldType types.FieldType
		want      bool
	}{
		{name: "valid text", fieldType: types.FieldTypeText, want: true},
		{name: "valid text-list", fieldType: types.FieldTypeTextList, want: true},
		{name: "valid select", fieldType: types.FieldTypeSelect, want: true},
		{name: "valid multi-select", fieldType: types.FieldTypeMultiSelect, want: true},
		{name: "valid date", fieldType: types.FieldTypeDate, want: true},
		{name: "valid url", fieldType: types.FieldTypeURL, want: true},
		{name: "number is not a stage field type", fieldType: types.FieldType("number"), want: false},
		{name: "empty", fieldType: types.FieldType(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.V(t, tt.fieldType.IsValid()).Equal(tt.want)
		})
	}
}

func TestFieldType_Shape(t *testing.T) {
	gt.B(t, types.FieldTypeTextList.IsList()).True()
	gt.B(t, types.FieldTypeMultiSelect.IsList()).True()
	gt.B(t, types.FieldTypeSelect.IsList()).False()

	gt.B(t, types.FieldTypeSelect.HasOptions()).True()
	gt.B(t, types.FieldTypeMultiSelect.HasOptions()).True()
	gt.B(t, types.FieldTypeText.HasOptions()).False()
}

func TestAllFieldTypes(t *testing.T) {
	for _, ft := range types.AllFieldTypes() {
		gt.B(t, ft.IsValid()).Describef("field type %s should be valid", ft).True()
	}
	gt.A(t, types.AllFieldTypes()).Length(6)
}
