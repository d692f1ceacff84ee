/*
Package streamspec parses, validates, and serves PDDL-style stream-definition
files: the declarative schemas a task-and-motion planner consumes to learn
which external procedures can produce which facts.

A stream file declares numeric functions, boolean predicates, and streams —
parameterized generators with a domain condition (what must hold of the
inputs) and a certified condition (what is guaranteed of the outputs):

	(define (stream pick-and-place)
	  (:stream sample-pose
	    :inputs (?b ?r)
	    :domain (Stackable ?b ?r)
	    :outputs (?p)
	    :certified (and (Pose ?b ?p) (Supported ?b ?p ?r)))
	)

streamspec owns the artifact end to end: reading it into an immutable
[pkg/domain.Definition], checking well-formedness, documenting it, and
implementing the consumer-side contract — a registry of generator
procedures, fact stores, and per-instance evaluation. It deliberately
contains no planner: scheduling stream evaluations and searching for plans
belong to the consuming system.

# Usage

	def, err := streamspec.LoadFile("stream.pddl")
	if err != nil {
		log.Fatal(err)
	}

	reg := registry.New()
	reg.Register("sample-pose", registry.FromFunc(samplePose))

	decl, _ := def.Stream("sample-pose")
	inst, _ := eval.NewInstance(decl, inputs, reg)
	store := memory.Seed(initialFacts...)

	if err := inst.CheckDomain(ctx, store); err == nil {
		results, _ := inst.Next(ctx)
		for _, r := range results {
			_ = inst.Certify(ctx, store, r)
		}
	}

The streamspec CLI exposes the same machinery for files on disk: validate,
show, graph, export, serve, and mcp.
*/
package streamspec
