package updater

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// confirmOnStdin asks a Y/N question on the console. An empty answer means
// yes; the prompt gates the install/update step only.
func confirmOnStdin(question string) (bool, error) {
	fmt.Printf("%s [Y/n]: ", question)

	reader := bufio.NewReader(os.Stdin)

	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))

	return answer == "" || answer == "y" || answer == "yes", nil
}

// PauseForKeypress blocks until the user presses enter. Called by the CLI
// before a fatal exit so console users can read the error.
func PauseForKeypress() {
	fmt.Println("Press enter to exit...")

	reader := bufio.NewReader(os.Stdin)
	_, _ = reader.ReadString('\n')
}
