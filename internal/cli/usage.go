package cli

import (
	"fmt"
	"strings"

	"github.com/koushik24k/AgentFlow/gateway"
)

func printUsage() {
	fmt.Println("AgentFlow CLI")
	fmt.Println("Usage:")
	fmt.Println("  agentflow \"<prompt text>\"                 Execute prompt and capture a YAML run artifact.")
	fmt.Println("  agentflow workflow [flags] -- \"<prompt>\"  Run adaptive cycles fed by self-evaluation feedback.")
	fmt.Println("  agentflow view [flags]                    Launch the local artifact viewer.")
	fmt.Println()
	fmt.Println("Workflow flags:")
	fmt.Println("  --cycles=N               Number of adaptive cycles (default: 3)")
	fmt.Println("  --workflow-id=ID         Workflow archive identifier (default: derived from timestamp)")
	fmt.Println("  --history-root=DIR       Cross-cycle history directory (default: sandbox/workflows)")
	fmt.Println("  --output=yaml|afl        Also emit AgentFlowLanguage sidecars with 'afl' (default: yaml)")
	fmt.Println()
	fmt.Println("Viewer flags:")
	fmt.Println("  --host=ADDR              Interface to bind (default: 127.0.0.1)")
	fmt.Println("  --port=N                 Port to bind (default: 5050)")
	fmt.Println("  --directory=DIR          Artifact directory to serve (default: current directory)")
	fmt.Println()
	fmt.Printf("  available adapters (AGENTFLOW_ADAPTER): %s\n", strings.Join(gateway.Names(), ", "))
}
