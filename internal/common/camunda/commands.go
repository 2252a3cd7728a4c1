// internal/common/camunda/commands.go
package camunda

import (
	"context"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
)

// The step wrappers below carry a recordingClient through a command chain
// and record the outcome only once Send reaches the gateway. Fail and throw
// chains are wrapped for the setters the error handler uses.

type completeStep1 struct {
	commands.CompleteJobCommandStep1
	rc *recordingClient
}

func (s completeStep1) JobKey(key int64) commands.CompleteJobCommandStep2 {
	return completeStep2{CompleteJobCommandStep2: s.CompleteJobCommandStep1.JobKey(key), rc: s.rc}
}

type completeStep2 struct {
	commands.CompleteJobCommandStep2
	rc *recordingClient
}

func (s completeStep2) wrap(d commands.DispatchCompleteJobCommand, err error) (commands.DispatchCompleteJobCommand, error) {
	if err != nil {
		return nil, err
	}
	return completeDispatch{DispatchCompleteJobCommand: d, rc: s.rc}, nil
}

func (s completeStep2) VariablesFromString(v string) (commands.DispatchCompleteJobCommand, error) {
	return s.wrap(s.CompleteJobCommandStep2.VariablesFromString(v))
}

func (s completeStep2) VariablesFromStringer(v fmt.Stringer) (commands.DispatchCompleteJobCommand, error) {
	return s.wrap(s.CompleteJobCommandStep2.VariablesFromStringer(v))
}

func (s completeStep2) VariablesFromMap(v map[string]interface{}) (commands.DispatchCompleteJobCommand, error) {
	return s.wrap(s.CompleteJobCommandStep2.VariablesFromMap(v))
}

func (s completeStep2) VariablesFromObject(v interface{}) (commands.DispatchCompleteJobCommand, error) {
	return s.wrap(s.CompleteJobCommandStep2.VariablesFromObject(v))
}

func (s completeStep2) VariablesFromObjectIgnoreOmitempty(v interface{}) (commands.DispatchCompleteJobCommand, error) {
	return s.wrap(s.CompleteJobCommandStep2.VariablesFromObjectIgnoreOmitempty(v))
}

func (s completeStep2) Send(ctx context.Context) (*pb.CompleteJobResponse, error) {
	return completeDispatch{DispatchCompleteJobCommand: s.CompleteJobCommandStep2, rc: s.rc}.Send(ctx)
}

type completeDispatch struct {
	commands.DispatchCompleteJobCommand
	rc *recordingClient
}

func (d completeDispatch) Send(ctx context.Context) (*pb.CompleteJobResponse, error) {
	resp, err := d.DispatchCompleteJobCommand.Send(ctx)
	if err == nil {
		d.rc.set(OutcomeCompleted)
	}
	return resp, err
}

type failStep1 struct {
	commands.FailJobCommandStep1
	rc *recordingClient
}

func (s failStep1) JobKey(key int64) commands.FailJobCommandStep2 {
	return failStep2{FailJobCommandStep2: s.FailJobCommandStep1.JobKey(key), rc: s.rc}
}

type failStep2 struct {
	commands.FailJobCommandStep2
	rc *recordingClient
}

func (s failStep2) Retries(retries int32) commands.FailJobCommandStep3 {
	return failStep3{FailJobCommandStep3: s.FailJobCommandStep2.Retries(retries), rc: s.rc}
}

type failStep3 struct {
	commands.FailJobCommandStep3
	rc *recordingClient
}

func (s failStep3) ErrorMessage(msg string) commands.FailJobCommandStep3 {
	return failStep3{FailJobCommandStep3: s.FailJobCommandStep3.ErrorMessage(msg), rc: s.rc}
}

func (s failStep3) wrap(d commands.DispatchFailJobCommand, err error) (commands.DispatchFailJobCommand, error) {
	if err != nil {
		return nil, err
	}
	return failDispatch{DispatchFailJobCommand: d, rc: s.rc}, nil
}

func (s failStep3) VariablesFromString(v string) (commands.DispatchFailJobCommand, error) {
	return s.wrap(s.FailJobCommandStep3.VariablesFromString(v))
}

func (s failStep3) VariablesFromMap(v map[string]interface{}) (commands.DispatchFailJobCommand, error) {
	return s.wrap(s.FailJobCommandStep3.VariablesFromMap(v))
}

func (s failStep3) VariablesFromObject(v interface{}) (commands.DispatchFailJobCommand, error) {
	return s.wrap(s.FailJobCommandStep3.VariablesFromObject(v))
}

func (s failStep3) Send(ctx context.Context) (*pb.FailJobResponse, error) {
	return failDispatch{DispatchFailJobCommand: s.FailJobCommandStep3, rc: s.rc}.Send(ctx)
}

type failDispatch struct {
	commands.DispatchFailJobCommand
	rc *recordingClient
}

func (d failDispatch) Send(ctx context.Context) (*pb.FailJobResponse, error) {
	resp, err := d.DispatchFailJobCommand.Send(ctx)
	if err == nil {
		d.rc.set(OutcomeFailed)
	}
	return resp, err
}

type throwStep1 struct {
	commands.ThrowErrorCommandStep1
	rc *recordingClient
}

func (s throwStep1) JobKey(key int64) commands.ThrowErrorCommandStep2 {
	return throwStep2{ThrowErrorCommandStep2: s.ThrowErrorCommandStep1.JobKey(key), rc: s.rc}
}

type throwStep2 struct {
	commands.ThrowErrorCommandStep2
	rc *recordingClient
}

func (s throwStep2) ErrorCode(code string) commands.DispatchThrowErrorCommand {
	return throwDispatch{DispatchThrowErrorCommand: s.ThrowErrorCommandStep2.ErrorCode(code), rc: s.rc}
}

type throwDispatch struct {
	commands.DispatchThrowErrorCommand
	rc *recordingClient
}

func (d throwDispatch) ErrorMessage(msg string) commands.DispatchThrowErrorCommand {
	return throwDispatch{DispatchThrowErrorCommand: d.DispatchThrowErrorCommand.ErrorMessage(msg), rc: d.rc}
}

func (d throwDispatch) wrap(next commands.DispatchThrowErrorCommand, err error) (commands.DispatchThrowErrorCommand, error) {
	if err != nil {
		return nil, err
	}
	return throwDispatch{DispatchThrowErrorCommand: next, rc: d.rc}, nil
}

func (d throwDispatch) VariablesFromString(v string) (commands.DispatchThrowErrorCommand, error) {
	return d.wrap(d.DispatchThrowErrorCommand.VariablesFromString(v))
}

func (d throwDispatch) VariablesFromMap(v map[string]interface{}) (commands.DispatchThrowErrorCommand, error) {
	return d.wrap(d.DispatchThrowErrorCommand.VariablesFromMap(v))
}

func (d throwDispatch) VariablesFromObject(v interface{}) (commands.DispatchThrowErrorCommand, error) {
	return d.wrap(d.DispatchThrowErrorCommand.VariablesFromObject(v))
}

func (d throwDispatch) Send(ctx context.Context) (*pb.ThrowErrorResponse, error) {
	resp, err := d.DispatchThrowErrorCommand.Send(ctx)
	if err == nil {
		d.rc.set(OutcomeBPMNError)
	}
	return resp, err
}
