package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalTransition 表示状态图中不存在的迁移，例如 Accepted→Draft。
	ErrIllegalTransition = errors.New("illegal contract transition")
	// ErrTransitionNotPermitted 表示迁移合法，但调用者不是可以执行它的一方。
	ErrTransitionNotPermitted = errors.New("contract transition not permitted for caller")
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// legalTransitions 列出状态图中的全部边，自环不在其中。
var legalTransitions = map[ContractState][]ContractState{
	ContractDraft: {ContractSend},
	ContractSend:  {ContractRead},
	ContractRead:  {ContractAccepted, ContractRejected},
}

// IsLegalTransition reports whether the state graph has an edge from -> to.
// Staying in the same state is always legal.
func IsLegalTransition(from, to ContractState) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is possible.
func (s ContractState) IsTerminal() bool {
	return s == ContractAccepted || s == ContractRejected
}

// TransitionContext provides context for contract status guards.
type TransitionContext struct {
	From            ContractState
	To              ContractState
	Role            Role
	IsArtistParty   bool
	IsEmployerParty bool
}

// CanTransitionContract evaluates whether the caller may move a contract from one status to another.
// Rules:
// - the edge must exist in the state graph (a self-edge always does)
// - Draft→Send belongs to the employer party
// - Send→Read, Read→Accepted and Read→Rejected belong to the artist party
// - an Admin may take any legal edge
func CanTransitionContract(ctx TransitionContext) GuardResult {
	if !IsLegalTransition(ctx.From, ctx.To) {
		if ctx.From.IsTerminal() {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("contract is already %s", ctx.From),
			}
		}
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot move contract from %s to %s", ctx.From, ctx.To),
		}
	}

	if ctx.Role == RoleAdmin {
		return GuardResult{Allowed: true}
	}

	if ctx.From == ctx.To {
		if ctx.IsArtistParty || ctx.IsEmployerParty {
			return GuardResult{Allowed: true}
		}
		return GuardResult{Allowed: false, Reason: "only a contract party can edit the contract"}
	}

	switch ctx.From {
	case ContractDraft:
		if ctx.IsEmployerParty {
			return GuardResult{Allowed: true}
		}
		return GuardResult{Allowed: false, Reason: "only the employer can send a draft contract"}
	default:
		if ctx.IsArtistParty {
			return GuardResult{Allowed: true}
		}
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("only the artist can move a contract from %s to %s", ctx.From, ctx.To),
		}
	}
}

// CanCreateContract evaluates the initial status of a new contract.
// Rules:
// - a contract starts as Draft
func CanCreateContract(status ContractState) GuardResult {
	if status != ContractDraft {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("a new contract must start as %s (got %s)", ContractDraft, status),
		}
	}
	return GuardResult{Allowed: true}
}
