package probe

import (
	"encoding/json"
	"fmt"
	"io"
)

// Exit codes returned by the CLI for each outcome.
const (
	ExitSuccess           = 0
	ExitContractViolation = 1
	ExitParseFailure      = 2
	ExitTransportFailure  = 3
	ExitConfigError       = 4
)

// ExitCode maps a result to the process exit status.
func ExitCode(r Result) int {
	switch r.Kind {
	case Success:
		return ExitSuccess
	case ContractViolation:
		return ExitContractViolation
	case ParseFailure:
		return ExitParseFailure
	default:
		return ExitTransportFailure
	}
}

// Report writes the human readable verdict for r.
func Report(w io.Writer, r Result) error {
	p := &printer{w: w}

	if r.HasExchange() {
		p.printf("Status: %d\n", r.StatusCode)
		p.printf("Duration: %.2fs\n", r.Duration.Seconds())
	}

	switch r.Kind {
	case Success:
		p.printJSON(r.Parsed)
		p.printf("\n[SUCCESS] Received valid OpenAI-compatible response structure.\n")
	case ContractViolation:
		p.printJSON(r.Parsed)
		p.printf("\n[FAILURE] %s\n", r.Detail)
	case ParseFailure:
		p.printf("Failed to parse JSON response: %s\n", r.Body)
		p.printf("\n[FAILURE] Response body is not valid JSON.\n")
	default:
		p.printf("\n[FAILURE] Request failed: %s\n", r.Detail)
		if r.Body != "" {
			p.printf("%s\n", r.Body)
		}
	}

	return p.err
}

// printer keeps the first write error so Report can return it once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) printJSON(v any) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		p.printf("Response JSON: <unprintable: %v>\n", err)
		return
	}
	p.printf("Response JSON:\n%s\n", pretty)
}
