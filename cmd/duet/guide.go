package main

import (
	"fmt"
	"io"
	"runtime"
)

// printInstallGuide prints platform-specific instructions for installing
// Ollama, shown when the server is unreachable.
func printInstallGuide(w io.Writer) {
	fmt.Fprintln(w, "\n=== Ollama Installation Guide ===")
	switch runtime.GOOS {
	case "darwin":
		fmt.Fprintln(w, "To install Ollama on macOS:")
		fmt.Fprintln(w, "1. Download Ollama from https://ollama.com/download")
		fmt.Fprintln(w, "2. Open the downloaded file and follow the installation instructions")
		fmt.Fprintln(w, "3. Start Ollama from your Applications folder")
		fmt.Fprintln(w, "\nAlternatively, install via Homebrew:")
		fmt.Fprintln(w, "   brew install ollama")
		fmt.Fprintln(w, "   ollama serve")
	case "linux":
		fmt.Fprintln(w, "To install Ollama on Linux:")
		fmt.Fprintln(w, "1. Run the following command:")
		fmt.Fprintln(w, "   curl -fsSL https://ollama.com/install.sh | sh")
		fmt.Fprintln(w, "2. Start the Ollama service:")
		fmt.Fprintln(w, "   ollama serve")
	case "windows":
		fmt.Fprintln(w, "To install Ollama on Windows:")
		fmt.Fprintln(w, "1. Download Ollama from https://ollama.com/download")
		fmt.Fprintln(w, "2. Run the installer and follow the installation instructions")
		fmt.Fprintln(w, "3. Start Ollama from the Start menu")
	default:
		fmt.Fprintf(w, "Please visit https://ollama.com/download for instructions on installing Ollama on %s\n", runtime.GOOS)
	}
	fmt.Fprintln(w, "\nAfter installation, make sure the Ollama service is running before trying again.")
}

// printPullGuide prints instructions for pulling a model that is not
// installed locally.
func printPullGuide(w io.Writer, model string) {
	fmt.Fprintf(w, "\n=== How to Pull Model %q ===\n", model)
	fmt.Fprintf(w, "To download the %q model, run:\n", model)
	fmt.Fprintf(w, "   ollama pull %s\n", model)
	fmt.Fprintln(w, "\nIf using the desktop app, you can also pull models from the library tab.")
}
