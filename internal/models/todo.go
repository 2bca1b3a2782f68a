// Package modelsはTodoを定義します。
package models

import (
	"time"
)

// DateLayout は期限日の入出力に使う ISO 形式です。
const DateLayout = "2006-01-02"

// TitleMaxLength はタイトルの最大文字数です。
const TitleMaxLength = 200

type Todo struct {
	ID          int64      `json:"id,omitempty"`         // 主キー
	Title       string     `json:"title"`                // タスクのタイトル（必須）
	Description string     `json:"description"`          // 説明 (任意)
	DueDate     *time.Time `json:"due_date,omitempty"`   // 期限日 (nil は期限なし)
	Resolved    bool       `json:"resolved"`             // 解決済みフラグ
	CreatedAt   time.Time  `json:"created_at"`           // 作成日時
	UpdatedAt   time.Time  `json:"updated_at,omitempty"` // 更新日時
}

// NewTodo はタイトルだけを持つ未解決のTodoを作成します。
func NewTodo(title string) *Todo {
	return &Todo{Title: title}
}

// String はタイトルを返します。
func (t Todo) String() string {
	return t.Title
}

// DueDateString は期限日を YYYY-MM-DD 形式で返します。期限がなければ空文字列です。
func (t Todo) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(DateLayout)
}

// HasDueDate は期限日が設定されているかを返します。
func (t Todo) HasDueDate() bool {
	return t.DueDate != nil
}
