// go_apply is a personal job application pipeline.
//
// Searches job boards, tailors a resume per posting with an LLM, renders
// it to DOCX and records every application in Google Drive, a Google
// Sheet and a local tracker. See "go_apply --help".
package main

import "github.com/anatolykoptev/go_apply/internal/cli"

func main() {
	cli.Execute()
}
