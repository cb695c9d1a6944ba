package release

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// StateID identifies one state of the release state machine.
type StateID string

const (
	StateIdle          StateID = "IDLE"
	StatePreflight     StateID = "PREFLIGHT"
	StateCompute       StateID = "COMPUTE"
	StateGenerate      StateID = "GENERATE"
	StateMutate        StateID = "MUTATE"
	StateCommit        StateID = "COMMIT"
	StateTag           StateID = "TAG"
	StatePublish       StateID = "PUBLISH"
	StateHooks         StateID = "HOOKS"
	StateDone          StateID = "DONE"
	StateRollback      StateID = "ROLLBACK"
	StateFailed        StateID = "FAILED"
	StatePublishFailed StateID = "PUBLISH_FAILED"
)

// Event names for the release state machine.
const (
	eventStart          statekit.EventType = "START"
	eventPreflightPass  statekit.EventType = "PREFLIGHT_PASS"
	eventPreflightFail  statekit.EventType = "PREFLIGHT_FAIL"
	eventComputePass    statekit.EventType = "COMPUTE_PASS"
	eventComputeFail    statekit.EventType = "COMPUTE_FAIL"
	eventGeneratePass   statekit.EventType = "GENERATE_PASS"
	eventGenerateFail   statekit.EventType = "GENERATE_FAIL"
	eventMutatePass     statekit.EventType = "MUTATE_PASS"
	eventMutateFail     statekit.EventType = "MUTATE_FAIL"
	eventCommitPass     statekit.EventType = "COMMIT_PASS"
	eventCommitFail     statekit.EventType = "COMMIT_FAIL"
	eventTagPass        statekit.EventType = "TAG_PASS"
	eventTagFail        statekit.EventType = "TAG_FAIL"
	eventPublishPass    statekit.EventType = "PUBLISH_PASS"
	eventPublishFail    statekit.EventType = "PUBLISH_FAIL"
	eventHooksDone      statekit.EventType = "HOOKS_DONE"
	eventRollbackDone   statekit.EventType = "ROLLBACK_DONE"
	eventCancel         statekit.EventType = "CANCEL"
)

var (
	idDraft          = statekit.StateID(StateIdle)
	idPreflight      = statekit.StateID(StatePreflight)
	idCompute        = statekit.StateID(StateCompute)
	idGenerate       = statekit.StateID(StateGenerate)
	idMutate         = statekit.StateID(StateMutate)
	idCommit         = statekit.StateID(StateCommit)
	idTag            = statekit.StateID(StateTag)
	idPublish        = statekit.StateID(StatePublish)
	idHooks          = statekit.StateID(StateHooks)
	idDone           = statekit.StateID(StateDone)
	idRollback       = statekit.StateID(StateRollback)
	idFailed         = statekit.StateID(StateFailed)
	idPublishFailed  = statekit.StateID(StatePublishFailed)
)

// runMachine wraps the statekit interpreter driving one release attempt.
// The orchestrator performs the actual work (git, file, template operations)
// and calls Send only after a stage's work has concluded; the machine's job
// is to hold the current stage and reject transitions that don't belong in
// the diagram, not to perform the work itself.
type runMachine struct {
	interpreter *statekit.Interpreter[struct{}]
}

func newRunMachine() (*runMachine, error) {
	machine, err := statekit.NewMachine[struct{}]("release-run").
		WithInitial(idDraft).
		State(idDraft).
		On(eventStart).Target(idPreflight).
		Done().
		State(idPreflight).
		On(eventPreflightPass).Target(idCompute).
		On(eventPreflightFail).Target(idFailed).
		On(eventCancel).Target(idRollback).
		Done().
		State(idCompute).
		On(eventComputePass).Target(idGenerate).
		On(eventComputeFail).Target(idFailed).
		On(eventCancel).Target(idRollback).
		Done().
		State(idGenerate).
		On(eventGeneratePass).Target(idMutate).
		On(eventGenerateFail).Target(idRollback).
		On(eventCancel).Target(idRollback).
		Done().
		State(idMutate).
		On(eventMutatePass).Target(idCommit).
		On(eventMutateFail).Target(idRollback).
		On(eventCancel).Target(idRollback).
		Done().
		State(idCommit).
		On(eventCommitPass).Target(idTag).
		On(eventCommitFail).Target(idRollback).
		On(eventCancel).Target(idRollback).
		Done().
		State(idTag).
		On(eventTagPass).Target(idPublish).
		On(eventTagFail).Target(idRollback).
		On(eventCancel).Target(idRollback).
		Done().
		State(idPublish).
		On(eventPublishPass).Target(idHooks).
		On(eventPublishFail).Target(idPublishFailed). // local state preserved, no rollback
		On(eventCancel).Target(idPublishFailed).       // cancellation during publish behaves like publish failure
		Done().
		State(idHooks).
		On(eventHooksDone).Target(idDone).
		Done().
		State(idDone).
		Final().
		Done().
		State(idRollback).
		On(eventRollbackDone).Target(idFailed).
		Done().
		State(idFailed).
		Final().
		Done().
		State(idPublishFailed).
		Final().
		Done().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build release state machine: %w", err)
	}

	return &runMachine{interpreter: statekit.NewInterpreter(machine)}, nil
}

func (m *runMachine) start() {
	m.interpreter.Start()
}

func (m *runMachine) send(event statekit.EventType) {
	m.interpreter.Send(statekit.Event{Type: event})
}

func (m *runMachine) current() StateID {
	return StateID(m.interpreter.State().Value)
}

func (m *runMachine) done() bool {
	return m.interpreter.Done()
}
