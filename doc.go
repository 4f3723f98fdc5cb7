// Package reagent provides the core types for building reason-then-act LLM
// agents: parsing model output into actions, coercing tool inputs to declared
// schemas, recording scratchpad/history state, and the interfaces that external
// collaborators (models, tools, front ends) implement.
//
// Two coordinators build on this package:
//
//   - react: a bounded iterate-until-answer loop. Each iteration asks the model
//     to either call a tool or deliver a final answer.
//   - graph: a five-stage workflow (analyze, execute, answer, review, finalize)
//     with a quality-review gate that can force the answer to be redrafted.
//
// # Quick Start
//
//	model := models.NewLCG(llm).WithModelName("gpt-4o")
//
//	weather := reagent.NewToolFunc(
//	    "get_weather",
//	    "Look up current weather for a city",
//	    map[string]any{
//	        "type": "object",
//	        "properties": map[string]any{
//	            "city": map[string]any{"type": "string"},
//	        },
//	        "required": []string{"city"},
//	    },
//	    func(ctx context.Context, input any) (string, error) {
//	        return lookupWeather(ctx, input)
//	    },
//	)
//
//	registry := reagent.NewRegistry(weather)
//	lib, _ := prompts.NewLibrary()
//
//	loop := react.New(model, registry, lib).WithMaxIterations(8)
//	result, err := loop.Run(ctx, "What's the weather in Berlin?")
//
// The workflow variant is constructed the same way:
//
//	wf := graph.New(model, registry, lib).WithScoreThreshold(8)
//	state, err := wf.Run(ctx, "What's the weather in Berlin?")
//	fmt.Println(state.AgentResponse)
//
// Front ends live in server (OpenAI-compatible HTTP API) and slackbot (Slack
// Socket Mode adapter); both drive a coordinator through the Runner interface.
package reagent
