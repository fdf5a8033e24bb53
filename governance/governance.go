// Copyright (C) 2019-2025, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package governance defines the guardian governance payloads and registers
// them with the default payload registry. Each payload is registered under
// the literal formed by its module and action, e.g.
// "CoreBridgeGuardianSetUpgrade".
package governance

import (
	"errors"
	"fmt"
)

// ErrDisallowedNullChain is returned when chain id 0 appears in a governance
// payload whose action must target a single chain.
var ErrDisallowedNullChain = errors.New("chain id 0 not allowed for action")

// Module is the SDK name of a governed module.
type Module string

const (
	CoreBridge  Module = "CoreBridge"
	TokenBridge Module = "TokenBridge"
	NftBridge   Module = "NftBridge"
	Relayer     Module = "Relayer"
)

// Action is the name of a governance action.
type Action string

const (
	UpgradeContract       Action = "UpgradeContract"
	RegisterChain         Action = "RegisterChain"
	RecoverChainId        Action = "RecoverChainId"
	GuardianSetUpgrade    Action = "GuardianSetUpgrade"
	SetMessageFee         Action = "SetMessageFee"
	TransferFees          Action = "TransferFees"
	UpdateDefaultProvider Action = "UpdateDefaultProvider"
)

// wireNames are the module names as they appear on the wire.
var wireNames = map[Module]string{
	CoreBridge:  "Core",
	TokenBridge: "TokenBridge",
	NftBridge:   "NFTBridge",
	Relayer:     "WormholeRelayer",
}

var modules = []Module{CoreBridge, TokenBridge, NftBridge, Relayer}

// moduleActions lists the actions of each module. The action number is the
// position in the list plus one.
var moduleActions = map[Module][]Action{
	CoreBridge:  {UpgradeContract, GuardianSetUpgrade, SetMessageFee, TransferFees, RecoverChainId},
	TokenBridge: {RegisterChain, UpgradeContract, RecoverChainId},
	NftBridge:   {RegisterChain, UpgradeContract, RecoverChainId},
	Relayer:     {RegisterChain, UpgradeContract, UpdateDefaultProvider},
}

// nullable actions accept chain id 0, which addresses every chain.
var nullable = map[Action]bool{
	GuardianSetUpgrade: true,
	TransferFees:       true,
	RegisterChain:      true,
}

// Modules returns the governed modules.
func Modules() []Module {
	out := make([]Module, len(modules))
	copy(out, modules)
	return out
}

// WireName returns the name encoded in the module field.
func (m Module) WireName() string {
	return wireNames[m]
}

// Actions returns the actions of the module in action number order.
func (m Module) Actions() []Action {
	out := make([]Action, len(moduleActions[m]))
	copy(out, moduleActions[m])
	return out
}

// AllowsNull reports whether the action accepts chain id 0.
func (a Action) AllowsNull() bool {
	return nullable[a]
}

// ActionNumber returns the wire number of a module action.
func ActionNumber(m Module, a Action) (uint8, error) {
	for i, action := range moduleActions[m] {
		if action == a {
			return uint8(i + 1), nil
		}
	}
	return 0, fmt.Errorf("module %s has no action %s", m, a)
}

// ActionByNumber returns the action of a module with the given wire number.
func ActionByNumber(m Module, n uint8) (Action, error) {
	actions := moduleActions[m]
	if n == 0 || int(n) > len(actions) {
		return "", fmt.Errorf("module %s has no action %d", m, n)
	}
	return actions[n-1], nil
}

// Literal returns the payload literal of a module action.
func Literal(m Module, a Action) string {
	return string(m) + string(a)
}

// Literals returns the payload literals of every governance payload.
func Literals() []string {
	var out []string
	for _, m := range modules {
		for _, a := range moduleActions[m] {
			out = append(out, Literal(m, a))
		}
	}
	return out
}
