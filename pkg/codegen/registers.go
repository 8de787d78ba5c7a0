package codegen

// reg is a slot in the fixed register bank. The bank is addressed by
// position, not by role; name() picks the width-specific spelling.
type reg int

const (
	rAX reg = iota
	rCX
	rDX
	rBX
	rSP
	rBP
	rSI
	rDI
)

// Column order is 8, 16, 32, 64 bits. The 8-bit column reuses the high-byte
// names for the last four slots since spl/bpl/sil/dil need a REX prefix.
var regNames = [...][4]string{
	rAX: {"al", "ax", "eax", "rax"},
	rCX: {"cl", "cx", "ecx", "rcx"},
	rDX: {"dl", "dx", "edx", "rdx"},
	rBX: {"bl", "bx", "ebx", "rbx"},
	rSP: {"ah", "sp", "esp", "rsp"},
	rBP: {"ch", "bp", "ebp", "rbp"},
	rSI: {"dh", "si", "esi", "rsi"},
	rDI: {"bh", "di", "edi", "rdi"},
}

func (r reg) name(bits int) string {
	switch bits {
	case 8:
		return regNames[r][0]
	case 16:
		return regNames[r][1]
	case 32:
		return regNames[r][2]
	case 64:
		return regNames[r][3]
	}
	panic("invalid register size")
}

// wordType maps a byte size to its NASM operand-size keyword.
func wordType(size int) string {
	switch size {
	case 1:
		return "byte"
	case 2:
		return "word"
	case 4:
		return "dword"
	case 8:
		return "qword"
	}
	panic("invalid operand size")
}
