package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr.Fields
}

func TestNewCompilesEverySchema(t *testing.T) {
	v := newValidator(t)
	for _, name := range []Schema{
		SchemaLogin, SchemaRefresh, SchemaPasswordChange, SchemaSalesCreate, SchemaSalesUpdate,
		SchemaCustomerCreate, SchemaDailyReportCreate, SchemaVisitRecordCreate, SchemaCommentCreate,
	} {
		assert.Contains(t, v.schemas, name)
	}
}

func TestValidateLogin(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Validate(SchemaLogin, []byte(`{"email":"sales1@test.com","password":"Test1234!"}`)))

	fields := fieldsOf(t, v.Validate(SchemaLogin, []byte(`{"password":"x"}`)))
	assert.Contains(t, fields, "email")

	fields = fieldsOf(t, v.Validate(SchemaLogin, []byte(`{"email":"not-an-email","password":""}`)))
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	long := strings.Repeat("a", 250) + "@test.com"
	fields = fieldsOf(t, v.Validate(SchemaLogin, []byte(`{"email":"`+long+`","password":"x"}`)))
	assert.Contains(t, fields, "email")
}

func TestValidateRejectsMalformedBody(t *testing.T) {
	v := newValidator(t)

	fields := fieldsOf(t, v.Validate(SchemaLogin, []byte(`{"email":`)))
	assert.Contains(t, fields, "body")

	fields = fieldsOf(t, v.Validate(SchemaLogin, []byte(`[]`)))
	assert.Contains(t, fields, "body")
}

func TestValidateUnknownSchema(t *testing.T) {
	v := newValidator(t)
	err := v.Validate(Schema("nope"), []byte(`{}`))
	require.Error(t, err)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestValidateSalesCreate(t *testing.T) {
	v := newValidator(t)

	valid := `{"name":"山田太郎","email":"yamada@test.com","password":"Test1234!","password_confirm":"Test1234!","department":"営業部","position":"一般"}`
	assert.NoError(t, v.Validate(SchemaSalesCreate, []byte(valid)))

	name := strings.Repeat("山", 101)
	fields := fieldsOf(t, v.Validate(SchemaSalesCreate, []byte(`{"name":"`+name+`","email":"yamada@test.com","password":"short","password_confirm":"short","department":"営業部","position":"一般"}`)))
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "password")
	assert.NotContains(t, fields, "email")
}

func TestValidateCustomerCreate(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Validate(SchemaCustomerCreate, []byte(`{"customer_name":"佐藤","company_name":"ABC商事","phone":"03-1234-5678"}`)))

	fields := fieldsOf(t, v.Validate(SchemaCustomerCreate, []byte(`{"customer_name":"佐藤","company_name":"ABC商事","phone":"+81 3 1234"}`)))
	assert.Contains(t, fields, "phone")
}

func TestValidateDailyReportCreate(t *testing.T) {
	v := newValidator(t)

	valid := `{"report_date":"2024-01-15","problem":"","plan":"","visit_records":[{"customer_id":1,"visit_time":"09:30","visit_content":"商談"}]}`
	assert.NoError(t, v.Validate(SchemaDailyReportCreate, []byte(valid)))

	fields := fieldsOf(t, v.Validate(SchemaDailyReportCreate, []byte(`{"report_date":"2024-01-15","visit_records":[]}`)))
	assert.Contains(t, fields, "visit_records")

	fields = fieldsOf(t, v.Validate(SchemaDailyReportCreate, []byte(`{"report_date":"2024/01/15","visit_records":[{"customer_id":0,"visit_time":"24:00","visit_content":"x"}]}`)))
	assert.Contains(t, fields, "report_date")
	assert.Contains(t, fields, "visit_records/0/customer_id")
	assert.Contains(t, fields, "visit_records/0/visit_time")
}

func TestValidateVisitRecordAndComment(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Validate(SchemaVisitRecordCreate, []byte(`{"customer_id":3,"visit_time":"23:59","visit_content":"訪問"}`)))
	fields := fieldsOf(t, v.Validate(SchemaVisitRecordCreate, []byte(`{"customer_id":3,"visit_time":"9:30","visit_content":""}`)))
	assert.Contains(t, fields, "visit_time")
	assert.Contains(t, fields, "visit_content")

	assert.NoError(t, v.Validate(SchemaCommentCreate, []byte(`{"comment_content":"確認しました"}`)))
	fields = fieldsOf(t, v.Validate(SchemaCommentCreate, []byte(`{"comment_content":"`+strings.Repeat("a", 1001)+`"}`)))
	assert.Contains(t, fields, "comment_content")
}

func TestValidateOptionalFieldsAcceptBlank(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name   string
		schema Schema
		body   string
	}{
		{"visit time omitted", SchemaVisitRecordCreate, `{"customer_id":3,"visit_content":"訪問"}`},
		{"visit time empty", SchemaVisitRecordCreate, `{"customer_id":3,"visit_time":"","visit_content":"訪問"}`},
		{"report visit time omitted", SchemaDailyReportCreate, `{"report_date":"2024-01-15","visit_records":[{"customer_id":1,"visit_content":"商談"}]}`},
		{"report visit time empty", SchemaDailyReportCreate, `{"report_date":"2024-01-15","visit_records":[{"customer_id":1,"visit_time":"","visit_content":"商談"}]}`},
		{"customer phone empty", SchemaCustomerCreate, `{"customer_name":"a","company_name":"b","phone":""}`},
		{"customer email empty", SchemaCustomerCreate, `{"customer_name":"a","company_name":"b","email":""}`},
		{"customer contact omitted", SchemaCustomerCreate, `{"customer_name":"a","company_name":"b"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, v.Validate(tt.schema, []byte(tt.body)))
		})
	}
}

func TestValidateOptionalFieldsStillCheckFormat(t *testing.T) {
	v := newValidator(t)

	fields := fieldsOf(t, v.Validate(SchemaCustomerCreate, []byte(`{"customer_name":"a","company_name":"b","phone":"abc","email":"nope"}`)))
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "email")

	fields = fieldsOf(t, v.Validate(SchemaCustomerCreate, []byte(`{"customer_name":"a","company_name":"b","phone":"`+strings.Repeat("1", 21)+`"}`)))
	assert.Contains(t, fields, "phone")

	fields = fieldsOf(t, v.Validate(SchemaVisitRecordCreate, []byte(`{"customer_id":3,"visit_time":" ","visit_content":"訪問"}`)))
	assert.Contains(t, fields, "visit_time")
}

func TestValidationErrorDetails(t *testing.T) {
	verr := &ValidationError{Schema: SchemaLogin}
	verr.add("email", "is required")
	verr.add("password", "is required")

	assert.Equal(t, "login: invalid fields email, password", verr.Error())
	assert.Equal(t, []string{"is required"}, verr.Details()["email"])
}
