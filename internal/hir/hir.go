// Package hir lowers a typed program into a control-flow graph of basic
// blocks over numbered temporaries. Unlike the AST/lowered/typed
// stages, HIR nodes own their data by value: they hold no references into
// earlier-stage buffers.
package hir

import (
	"hearthc/internal/ast"
	"hearthc/internal/types"
)

// Tmp is an opaque numbered value, produced by exactly one instruction.
type Tmp int

// BlockID identifies one basic block.
type BlockID int

// Param is one field bound by the automation's top-level pattern, live at
// entry.
type Param struct {
	Name string
	Tmp  Tmp
	Ty   types.Ty
}

// Instruction assigns the result of an Op to a Tmp.
type Instruction struct {
	Dst Tmp
	Op  Op
	Ty  types.Ty
}

// BasicBlock is a straight-line instruction sequence ending in exactly one
// terminator; no fall-through.
type BasicBlock struct {
	ID     BlockID
	Instrs []Instruction
	Term   Terminator
}

// Automation is one lowered automation: its entry parameters and its
// basic-block body, rooted at Entry.
type Automation struct {
	Kind   ast.AutomationKind
	Params []Param
	Blocks []*BasicBlock
	Entry  BlockID
}

// Program mirrors sema.Program after lowering.
type Program struct {
	Automation  *Automation
	Automations []*Automation
}

// Block looks up one of a's blocks by ID.
func (a *Automation) Block(id BlockID) *BasicBlock {
	for _, b := range a.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}
