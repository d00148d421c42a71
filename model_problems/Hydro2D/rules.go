package Hydro2D

import (
	"fmt"
	"strings"

	"github.com/notargets/gohydro/Riemann"
)

type ConditionType uint8

const (
	COND_Boundary ConditionType = iota
	COND_Bulk
	COND_Special
)

var (
	ConditionNames = map[string]ConditionType{
		"boundary": COND_Boundary,
		"bulk":     COND_Bulk,
		"special":  COND_Special,
	}
	ConditionPrintNames = []string{"Boundary Edge", "Bulk Edge", "Regular Special Edge"}
)

func (ct ConditionType) Print() (txt string) {
	txt = ConditionPrintNames[ct]
	return
}

func NewConditionType(label string) (ct ConditionType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(label)
	if ct, ok = ConditionNames[label]; !ok {
		err = fmt.Errorf("unable to use edge condition named %s", label)
	}
	return
}

type ActionType uint8

const (
	ACTION_Regular ActionType = iota
	ACTION_RigidWall
	ACTION_FreeFlow
)

var (
	ActionNames = map[string]ActionType{
		"regular":  ACTION_Regular,
		"wall":     ACTION_RigidWall,
		"freeflow": ACTION_FreeFlow,
	}
	ActionPrintNames = []string{"Regular Flux", "Rigid Wall Flux", "Free Flow Flux"}
)

func (at ActionType) Print() (txt string) {
	txt = ActionPrintNames[at]
	return
}

func NewActionType(label string) (at ActionType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(label)
	if at, ok = ActionNames[label]; !ok {
		err = fmt.Errorf("unable to use flux action named %s", label)
	}
	return
}

/*
NewRule builds a rule from its names, as read from an input file. The special condition
needs the name of the sticker that marks the tagged cells. The rule is named
condition/action, with the sticker appended for special edges.
*/
func NewRule(condition, sticker, action string, rs Riemann.Solver) (rule Rule, err error) {
	var (
		ct ConditionType
		at ActionType
	)
	if ct, err = NewConditionType(condition); err != nil {
		return
	}
	if at, err = NewActionType(action); err != nil {
		return
	}
	if rs == nil {
		err = fmt.Errorf("rule %s/%s needs a riemann solver", condition, action)
		return
	}
	rule.Name = strings.ToLower(condition) + "/" + strings.ToLower(action)
	switch ct {
	case COND_Boundary:
		rule.Condition = IsBoundaryEdge{}
	case COND_Bulk:
		rule.Condition = IsBulkEdge{}
	case COND_Special:
		if sticker == "" {
			err = fmt.Errorf("special edge rule needs a sticker name")
			return
		}
		rule.Condition = RegularSpecialEdge{Sticker: sticker}
		rule.Name += ":" + sticker
	}
	switch at {
	case ACTION_Regular:
		rule.Action = RegularFlux{Solver: rs}
	case ACTION_RigidWall:
		rule.Action = RigidWallFlux{Solver: rs}
	case ACTION_FreeFlow:
		rule.Action = FreeFlowFlux{Solver: rs}
	}
	return
}
