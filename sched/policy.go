package sched

import (
	"fmt"
	"sort"
)

// Policy names accepted by NewSimulator.
const (
	PolicyFCFS       = "fcfs"
	PolicySRPT       = "srpt"
	PolicySJF        = "sjf"
	PolicySETF       = "setf"
	PolicyRR         = "rr"
	PolicyMLFQ       = "mlfq"
	PolicyBAL        = "bal"
	PolicyBALLegacy  = "bal-legacy"
	PolicyRMLF       = "rmlf"
	PolicyDynamic    = "dynamic"
	PolicyDynamicBAL = "dynamic-bal"
)

// Simulator runs one scheduling policy over a job list.
// Implementations copy jobs before mutating them and keep no state between
// calls, so one Simulator may be used from several goroutines.
type Simulator interface {
	Name() string
	Simulate(jobs []Job) Outcome
}

var validPolicies = map[string]bool{
	PolicyFCFS: true, PolicySRPT: true, PolicySJF: true, PolicySETF: true,
	PolicyRR: true, PolicyMLFQ: true, PolicyBAL: true, PolicyBALLegacy: true,
	PolicyRMLF: true, PolicyDynamic: true, PolicyDynamicBAL: true,
}

// IsValidPolicy reports whether name is a known policy.
func IsValidPolicy(name string) bool {
	return validPolicies[name]
}

// PolicyNames returns every known policy name in sorted order.
func PolicyNames() []string {
	names := make([]string, 0, len(validPolicies))
	for name := range validPolicies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSimulator creates a Simulator by name. Zero-valued fields of cfg take
// their defaults. Panics on unrecognized names.
func NewSimulator(name string, cfg PolicyConfig) Simulator {
	if !IsValidPolicy(name) {
		panic(fmt.Sprintf("unknown policy %q", name))
	}
	cfg = cfg.withDefaults()
	switch name {
	case PolicyFCFS:
		return FCFS{}
	case PolicySRPT:
		return SRPT{}
	case PolicySJF:
		return SJF{}
	case PolicySETF:
		return SETF{}
	case PolicyRR:
		return NewRoundRobin(cfg.TimeQuantum)
	case PolicyMLFQ:
		return NewMLFQ(cfg.NumQueues)
	case PolicyBAL:
		return NewBAL(cfg.StarvationThreshold)
	case PolicyBALLegacy:
		return NewBAL(cfg.StarvationThreshold).Legacy()
	case PolicyRMLF:
		return NewRMLF(cfg.Seed)
	case PolicyDynamic:
		return NewDynamic(cfg)
	case PolicyDynamicBAL:
		return NewDynamicBAL(cfg)
	default:
		panic(fmt.Sprintf("unhandled policy %q", name))
	}
}
