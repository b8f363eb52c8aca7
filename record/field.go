package record

// FieldSize 定长文本字段的字符槽位数
const FieldSize = 32

// Field 定长文本字段，按字符存储，未写入的槽位为 '\0'
type Field [FieldSize]rune

// Encode 从左到右把 text 的字符写入字段，超过 FieldSize 的部分丢弃，不报错
func Encode(text string) Field {
	var f Field
	i := 0
	for _, c := range text {
		if i == FieldSize {
			break
		}
		f[i] = c
		i++
	}
	return f
}

// Fits 判断 text 能否完整放进一个字段
func Fits(text string) bool {
	return CharCount(text) <= FieldSize
}

// CharCount 返回 text 的字符数
func CharCount(text string) int {
	n := 0
	for range text {
		n++
	}
	return n
}

// Len 第一个 '\0' 之前的字符数
func (f Field) Len() int {
	for i, c := range f {
		if c == 0 {
			return i
		}
	}
	return FieldSize
}

func (f Field) String() string {
	return string(f[:f.Len()])
}
