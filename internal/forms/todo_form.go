// Package forms は送信されたフォーム値の変換と検証を行います。
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"todoweb/internal/models"
)

// NonFieldErrors は特定のフィールドに紐づかないエラーのキーです。
const NonFieldErrors = "__all__"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// エラーのフィールド名をフォームのキー (title, due_date ...) にそろえる
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Errors はフィールド名ごとのエラーメッセージです。
type Errors map[string][]string

// Add はフィールドにメッセージを追加します。
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has はフィールドにエラーがあるかを返します。
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Get はフィールドのメッセージを返します。テンプレートから使います。
func (e Errors) Get(field string) []string {
	return e[field]
}

// TodoForm はTodoの作成・編集フォームです。
// gin の form バインディングで生の文字列を受け取り、Clean で変換と検証を行います。
type TodoForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description"`
	DueDate     string `form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Resolved    string `form:"resolved"`

	dueDate  *time.Time
	resolved bool
	cleaned  bool
}

// FromTodo は既存のTodoで埋めたフォームを作成します。
func FromTodo(t *models.Todo) *TodoForm {
	f := &TodoForm{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDateString(),
	}
	if t.Resolved {
		f.Resolved = "on"
	}
	return f
}

// Checked はチェックボックスを checked で描画するかを返します。
func (f *TodoForm) Checked() bool {
	return checkbox(f.Resolved)
}

// checkbox はチェックボックスの送信値を解釈します。
// 値が無い、または "false" のときだけ false です。
func checkbox(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !strings.EqualFold(value, "false")
}

// Clean は値を正規化・検証します。検証に通れば nil を返します。
func (f *TodoForm) Clean() Errors {
	f.Title = strings.TrimSpace(f.Title)
	f.DueDate = strings.TrimSpace(f.DueDate)
	f.cleaned = false

	errs := Errors{}
	if err := validate.Struct(f); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			errs.Add(NonFieldErrors, err.Error())
			return errs
		}
		for _, fe := range fieldErrs {
			errs.Add(fe.Field(), message(fe))
		}
		return errs
	}

	f.dueDate = nil
	if f.DueDate != "" {
		d, err := time.ParseInLocation(models.DateLayout, f.DueDate, time.UTC)
		if err != nil {
			errs.Add("due_date", "Enter a valid date.")
			return errs
		}
		f.dueDate = &d
	}
	f.resolved = checkbox(f.Resolved)
	f.cleaned = true
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		value, _ := fe.Value().(string)
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), len([]rune(value)))
	case "datetime":
		return "Enter a valid date."
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}

// Apply は検証済みの値をTodoに書き込みます。Clean が成功した後に呼びます。
func (f *TodoForm) Apply(t *models.Todo) error {
	if !f.cleaned {
		return errors.New("forms: Apply called before a successful Clean")
	}
	t.Title = f.Title
	t.Description = f.Description
	t.DueDate = f.dueDate
	t.Resolved = f.resolved
	return nil
}
