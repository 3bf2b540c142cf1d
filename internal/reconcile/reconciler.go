package reconcile

import (
	"context"

	"github.com/insan3d/proctl/internal/logger"
	"github.com/insan3d/proctl/internal/procli"
	proctlerrors "github.com/insan3d/proctl/pkg/errors"
)

// Client is the vendor CLI collaborator the reconciler converges through.
// Subscription state is host-global and lives outside the process, so it
// is injected rather than reached for, which also makes reconciliation
// testable against a fake.
type Client interface {
	Status(ctx context.Context) (*procli.Status, error)
	Attach(ctx context.Context, token string) error
	Detach(ctx context.Context) error
	Enable(ctx context.Context, service string) error
	Disable(ctx context.Context, service string) error
}

// Reconciler converges a machine's Ubuntu Pro attachment and service
// enablement to a declared state, issuing the minimum number of corrective
// CLI invocations. Calls against the same host must be serialized by the
// caller: the vendor CLI offers no transactional isolation.
type Reconciler struct {
	client Client
	log    *logger.Logger
}

// New returns a Reconciler driving the given client.
func New(client Client, log *logger.Logger) *Reconciler {
	return &Reconciler{client: client, log: log.WithComponent("reconcile")}
}

// Reconcile observes current state, plans the minimal action set, applies
// it, and classifies what happened.
//
// Attach and detach run first and gate everything else: when one fails,
// every planned service action is recorded as blocked and the call returns
// the attachment error alongside the partial result. Service actions are
// independent of each other; a failure on one is recorded and the rest
// still run. Each applied action is verified by re-querying status.
//
// Calling Reconcile twice with the same declaration and no outside
// interference yields Changed=false on the second call.
func (r *Reconciler) Reconcile(ctx context.Context, desired DesiredState) (*Result, error) {
	if err := desired.Validate(); err != nil {
		return nil, err
	}

	observed, err := r.observe(ctx, desired)
	if err != nil {
		return nil, err
	}

	attach, detach := planAttachment(desired, *observed)

	if attach && desired.Token == "" {
		return nil, proctlerrors.NewPreconditionError("token is required to attach the system")
	}

	result := newResult()
	result.Attached = observed.Attached

	switch {
	case attach:
		r.log.Info("attaching system to Ubuntu Pro")
		if err := r.client.Attach(ctx, desired.Token); err != nil {
			result.blockServices(requestedServices(desired))
			return result, proctlerrors.NewAttachmentError("attach", err.Error(), err)
		}

		observed, err = r.observe(ctx, desired)
		if err != nil {
			return result, err
		}
		if !observed.Attached {
			result.blockServices(requestedServices(desired))
			return result, proctlerrors.NewAttachmentError("attach",
				"system still reports detached after attach", nil)
		}

		result.Changed = true
		result.Attached = true

	case detach:
		r.log.Info("detaching system from Ubuntu Pro")
		if err := r.client.Detach(ctx); err != nil {
			return result, proctlerrors.NewAttachmentError("detach", err.Error(), err)
		}

		observed, err = r.observe(ctx, desired)
		if err != nil {
			return result, err
		}
		if observed.Attached {
			return result, proctlerrors.NewAttachmentError("detach",
				"system still reports attached after detach", nil)
		}

		result.Changed = true
		result.Attached = false

		// Post-detach service state is undefined; nothing further to do
		// since detached declarations carry no service lists.
		return result, nil
	}

	if !observed.Attached {
		return result, nil
	}

	plan := planServices(desired, *observed)
	for _, svc := range plan.Satisfied {
		result.Services[svc] = Outcome{Status: OutcomeUnchanged}
	}

	for _, act := range plan.Actions {
		outcome, err := r.applyServiceAction(ctx, act)
		if err != nil {
			result.Services[act.Service] = outcome
			return result, err
		}

		result.Services[act.Service] = outcome
		if outcome.Status == OutcomeChanged {
			result.Changed = true
		}
	}

	return result, nil
}

// applyServiceAction runs one enable/disable and verifies its effect. The
// returned error is non-nil only for observation failures, which are fatal
// to the whole call; CLI refusals become the outcome's failure reason.
func (r *Reconciler) applyServiceAction(ctx context.Context, act serviceAction) (Outcome, error) {
	log := r.log.WithFields(map[string]any{"service": act.Service, "action": act.Op})
	log.Info("applying service action")

	var actErr error
	if act.Op == "enable" {
		actErr = r.client.Enable(ctx, act.Service)
	} else {
		actErr = r.client.Disable(ctx, act.Service)
	}

	if actErr != nil {
		log.Error(actErr, "service action failed")
		return Outcome{Status: OutcomeFailed, Reason: actErr.Error()}, nil
	}

	status, err := r.client.Status(ctx)
	if err != nil {
		return Outcome{Status: OutcomeFailed, Reason: "verification failed"},
			proctlerrors.NewObservationError(err)
	}

	state := status.State(act.Service)
	verified := state == procli.ServiceEnabled
	if act.Op == "disable" {
		verified = state != procli.ServiceEnabled
	}

	if !verified {
		return Outcome{
			Status: OutcomeFailed,
			Reason: "service reports " + string(state) + " after " + act.Op,
		}, nil
	}

	return Outcome{Status: OutcomeChanged}, nil
}

// Preview observes and plans without mutating anything, predicting the
// outcome of a real reconciliation. The token precondition is enforced
// here too so a dry run rejects the same declarations a real run would.
func (r *Reconciler) Preview(ctx context.Context, desired DesiredState) (*Result, error) {
	if err := desired.Validate(); err != nil {
		return nil, err
	}

	observed, err := r.observe(ctx, desired)
	if err != nil {
		return nil, err
	}

	attach, detach := planAttachment(desired, *observed)
	if attach && desired.Token == "" {
		return nil, proctlerrors.NewPreconditionError("token is required to attach the system")
	}

	result := newResult()
	result.Changed = attach || detach
	result.Attached = desired.Attachment == Attached

	plan := planServices(desired, *observed)
	for _, svc := range plan.Satisfied {
		result.Services[svc] = Outcome{Status: OutcomeUnchanged}
	}
	for _, act := range plan.Actions {
		result.Services[act.Service] = Outcome{
			Status: OutcomeWouldChange,
			Reason: "would " + act.Op,
		}
		result.Changed = true
	}

	return result, nil
}

// observe takes a fresh snapshot of attachment plus the state of every
// service named in the declaration.
func (r *Reconciler) observe(ctx context.Context, desired DesiredState) (*ObservedState, error) {
	status, err := r.client.Status(ctx)
	if err != nil {
		return nil, proctlerrors.NewObservationError(err)
	}

	observed := &ObservedState{
		Attached: status.Attached,
		Services: make(map[string]procli.ServiceState),
	}
	for _, svc := range requestedServices(desired) {
		observed.Services[svc] = status.State(svc)
	}

	return observed, nil
}

func requestedServices(desired DesiredState) []string {
	services := make([]string, 0, len(desired.Enable)+len(desired.Disable))
	services = append(services, desired.Enable...)
	services = append(services, desired.Disable...)
	return services
}
