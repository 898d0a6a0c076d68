package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/jacentio/dynamodb-actions/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("keyvalue", isKeyValue); err != nil {
		panic(err)
	}
	return v
}

// isKeyValue accepts non-empty strings and numbers, the only types a table
// key attribute can hold here.
func isKeyValue(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.String:
		if f.Type() == reflect.TypeOf(json.Number("")) {
			_, err := strconv.ParseFloat(f.String(), 64)
			return err == nil
		}
		return f.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// Validate checks raw input against the schema of its operation and returns
// the matching request. Unknown fields are ignored. The first violation is
// returned as a *ValidationError.
func Validate(raw RawInput) (Request, error) {
	opField, err := raw.stringField(FieldOperation)
	if err != nil {
		return nil, err
	}
	op, err := ParseOperationName(opField)
	if err != nil {
		return nil, err
	}

	target, err := decodeTarget(raw)
	if err != nil {
		return nil, err
	}

	var req Request
	switch op {
	case OperationGet:
		req, err = decodeGet(raw, target)
	case OperationPut:
		req, err = decodePut(raw, target)
	case OperationBatchPut:
		req, err = decodeBatchPut(raw, target)
	case OperationDelete:
		req, err = decodeDelete(raw, target)
	case OperationUpdate:
		req, err = decodeUpdate(raw, target)
	}
	if err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, translate(err)
	}
	if u, ok := req.(*UpdateRequest); ok {
		if err := checkUpdate(u); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func decodeTarget(raw RawInput) (Target, error) {
	region, err := raw.stringField(FieldRegion)
	if err != nil {
		return Target{}, err
	}
	table, err := raw.stringField(FieldTable)
	if err != nil {
		return Target{}, err
	}
	return Target{Region: strings.ToLower(region), Table: table}, nil
}

func decodeGet(raw RawInput, target Target) (*GetRequest, error) {
	key, err := decodeKey(raw)
	if err != nil {
		return nil, err
	}
	consistent, err := decodeBool(raw, FieldConsistent)
	if err != nil {
		return nil, err
	}
	return &GetRequest{Target: target, Key: key, Consistent: consistent}, nil
}

func decodePut(raw RawInput, target Target) (*PutRequest, error) {
	item, err := decodeObject(raw[FieldItem], FieldItem)
	if err != nil {
		return nil, err
	}
	file, err := raw.stringField(FieldFile)
	if err != nil {
		return nil, err
	}
	return &PutRequest{Target: target, Item: item, File: file}, nil
}

func decodeBatchPut(raw RawInput, target Target) (*BatchPutRequest, error) {
	files, err := raw.stringField(FieldFiles)
	if err != nil {
		return nil, err
	}

	req := &BatchPutRequest{Target: target, Files: files}
	switch v := raw[FieldItems].(type) {
	case nil:
	case []any:
		if len(v) == 0 {
			return nil, invalid(FieldItems, "must contain at least 1 item")
		}
		req.Items = make([]store.Item, len(v))
		for i, e := range v {
			field := fmt.Sprintf("%s[%d]", FieldItems, i)
			item, err := decodeObject(e, field)
			if err != nil {
				return nil, err
			}
			if item == nil {
				return nil, invalid(field, "is required")
			}
			req.Items[i] = item
		}
	case []map[string]any:
		if len(v) == 0 {
			return nil, invalid(FieldItems, "must contain at least 1 item")
		}
		req.Items = make([]store.Item, len(v))
		for i, e := range v {
			req.Items[i] = e
		}
	default:
		return nil, invalid(FieldItems, "must be an array")
	}
	return req, nil
}

func decodeDelete(raw RawInput, target Target) (*DeleteRequest, error) {
	key, err := decodeKey(raw)
	if err != nil {
		return nil, err
	}
	return &DeleteRequest{Target: target, Key: key}, nil
}

func decodeUpdate(raw RawInput, target Target) (*UpdateRequest, error) {
	key, err := decodeKey(raw)
	if err != nil {
		return nil, err
	}
	req := &UpdateRequest{Target: target, Key: key}
	if req.Attributes, err = raw.listField(FieldUpdateExpression); err != nil {
		return nil, err
	}
	if req.Values, err = raw.listField(FieldExpressionAttributeValues); err != nil {
		return nil, err
	}
	if req.ValueFiles, err = raw.listField(FieldExpressionAttributeFiles); err != nil {
		return nil, err
	}
	if req.Values != nil {
		req.ValueFiles = nil
	}
	return req, nil
}

func decodeKey(raw RawInput) (store.Key, error) {
	obj, err := decodeObject(raw[FieldKey], FieldKey)
	if err != nil || obj == nil {
		return nil, err
	}
	return store.Key(obj), nil
}

func decodeObject(v any, field string) (store.Item, error) {
	switch obj := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return obj, nil
	case store.Item:
		return obj, nil
	case store.Key:
		return store.Item(obj), nil
	default:
		return nil, invalid(field, "must be an object")
	}
}

func decodeBool(raw RawInput, field string) (bool, error) {
	switch v := raw[field].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "":
			return false, nil
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, invalid(field, "must be a boolean")
}

// checkUpdate enforces the rules that span the attribute and value lists.
func checkUpdate(u *UpdateRequest) error {
	seen := make(map[string]bool, len(u.Attributes))
	for _, name := range u.Attributes {
		if seen[name] {
			return invalid(FieldUpdateExpression, "names attribute %q more than once", name)
		}
		seen[name] = true
	}

	field, n := FieldExpressionAttributeValues, len(u.Values)
	if u.Values == nil {
		field, n = FieldExpressionAttributeFiles, len(u.ValueFiles)
	}
	if n != len(u.Attributes) {
		return invalid(field, "has %d entries but %s names %d attributes", n, FieldUpdateExpression, len(u.Attributes))
	}
	return nil
}

// translate converts the first validator error into a ValidationError.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s entries", fe.Param())
	case "keyvalue":
		return "must be a non-empty string or a number"
	case "required_without":
		return fmt.Sprintf("is required when '%s' is not set", inputName(fe.Param()))
	case "excluded_with":
		return fmt.Sprintf("must not be set together with '%s'", inputName(fe.Param()))
	default:
		return "failed rule " + fe.Tag()
	}
}

// inputName maps a struct field name used as a rule parameter to its input
// field name.
func inputName(field string) string {
	switch field {
	case "Values":
		return FieldExpressionAttributeValues
	case "ValueFiles":
		return FieldExpressionAttributeFiles
	}
	r := []rune(field)
	if len(r) > 0 {
		r[0] = unicode.ToLower(r[0])
	}
	return string(r)
}
