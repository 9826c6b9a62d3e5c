// Command sv browses hierarchical model evaluation results in the terminal.
package main

func main() {
	Execute()
}
