package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ContractState 合同状态，存储为整数，对外以名称表示。
type ContractState int

const (
	ContractDraft ContractState = iota
	ContractSend
	ContractRead
	ContractAccepted
	ContractRejected
)

var ErrUnknownContractState = errors.New("unknown contract state")

var contractStateNames = [...]string{
	ContractDraft:    "Draft",
	ContractSend:     "Send",
	ContractRead:     "Read",
	ContractAccepted: "Accepted",
	ContractRejected: "Rejected",
}

// Valid reports whether s is one of the five defined states.
func (s ContractState) Valid() bool {
	return s >= ContractDraft && s <= ContractRejected
}

func (s ContractState) String() string {
	if s.Valid() {
		return contractStateNames[s]
	}
	return fmt.Sprintf("ContractState(%d)", int(s))
}

// ParseContractState accepts the state name exactly as String renders it.
func ParseContractState(name string) (ContractState, error) {
	for i, n := range contractStateNames {
		if n == name {
			return ContractState(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContractState, name)
}

// ContractStateFromInt 用于从数据库整数列还原状态。
func ContractStateFromInt(v int) (ContractState, error) {
	s := ContractState(v)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownContractState, v)
	}
	return s, nil
}

func (s ContractState) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownContractState, int(s))
	}
	return json.Marshal(s.String())
}

func (s *ContractState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("contract state must be a string: %w", err)
	}
	parsed, err := ParseContractState(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
