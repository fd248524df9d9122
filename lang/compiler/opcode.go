package compiler

import "fmt"

// Opcode identifies a bytecode instruction. Every instruction occupies two
// words in Program.Bytecode: the Opcode itself, then a single uint32
// argument, matching the flat "opcode, arg, opcode, arg, ..." layout
// dis.c/vm.c read (no variable-length encoding, no operand count field).
type Opcode uint32

const (
	// LOADG loads Globals[arg] into r0.
	LOADG Opcode = iota
	// LOAD copies r[arg] into r0.
	LOAD
	// STORE copies r0 into r[arg].
	STORE
	// LOADV writes r0 into the current frame's variable table at bucket
	// arg (a name hash already masked by VariableTableMask).
	LOADV
	// VAR reads the current frame's variable table at bucket arg into r0,
	// walking Frame.Prev if the local frame's slot is empty.
	VAR
	// ADD/SUB/MUL/DIV compute r[arg] OP r0, leaving the result in r0. See
	// value.Add's doc comment for why the operand order is r[arg] OP r0
	// rather than the reverse.
	ADD
	SUB
	MUL
	DIV
	// EQ compares r[arg] and r0 with value.Cmp, leaving value.Bool(...) in
	// r0.
	EQ
	// ARGS records that arg call/builtin arguments (arg may be 0) were
	// staged into r1..r[arg] ahead of the CALL/BUILTIN that immediately
	// follows it; always emitted, so the machine never has to guess an
	// argument count.
	ARGS
	// BUILTIN invokes the runtime builtin whose name hash is arg.
	BUILTIN
	// CALL transfers control to the function whose bytecode starts at
	// offset arg, pushing a new Frame.
	CALL
	// LEAVE pops the current Frame and resumes at its saved return PC.
	LEAVE
	// JMP sets PC to arg unconditionally; used to skip over a function
	// body compiled inline at its definition site.
	JMP
	// ASSERT checks r0's Truth and raises a RuntimeError if it is false.
	ASSERT
)

var opcodeNames = [...]string{
	LOADG:   "LOADG",
	LOAD:    "LOAD",
	STORE:   "STORE",
	LOADV:   "LOADV",
	VAR:     "VAR",
	ADD:     "ADD",
	SUB:     "SUB",
	MUL:     "MUL",
	DIV:     "DIV",
	EQ:      "EQ",
	ARGS:    "ARGS",
	BUILTIN: "BUILTIN",
	CALL:    "CALL",
	LEAVE:   "LEAVE",
	JMP:     "JMP",
	ASSERT:  "ASSERT",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) && opcodeNames[o] != "" {
		return opcodeNames[o]
	}
	return fmt.Sprintf("OP(%d)", o)
}
