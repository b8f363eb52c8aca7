package record

import (
	"fmt"
)

// Record 表中的一行，构造后不再修改
type Record struct {
	ID       uint8
	Username Field
	Email    Field
}

// New 用原始文本构造记录，文本字段经过 Encode，超长部分被截断
func New(id uint8, username string, email string) Record {
	return Record{
		ID:       id,
		Username: Encode(username),
		Email:    Encode(email),
	}
}

// Equal 逐字段比较，包括填充的 '\0'
func (r Record) Equal(other Record) bool {
	return r == other
}

func (r Record) String() string {
	return fmt.Sprintf("Record{ID: %d, Username: %q, Email: %q}", r.ID, r.Username.String(), r.Email.String())
}
