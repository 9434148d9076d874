/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	emailFrom   string
	emailDryRun bool
)

var emailCmd = &cobra.Command{
	Use:   "email <address> [date] [date]",
	Short: "Emails the listening summary",
	Long: `Sends the top-n summary to the given address via SendGrid. Optional
date arguments work like for top-n. Requires SENDGRID_API_KEY and
--from.`,
	Args: cobra.RangeArgs(1, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if emailFrom == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := sendSummaryEmail(args[0], args[1:]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)
	emailCmd.Flags().StringVar(&emailFrom, "from", "", "From email address")
	emailCmd.Flags().BoolVar(&emailDryRun, "dry-run", false, "Print the email body instead of sending")
}

func sendSummaryEmail(to string, dateArgs []string) error {
	body := new(bytes.Buffer)
	if err := printTopN(body, dateArgs); err != nil {
		return err
	}

	subject := fmt.Sprintf("Listening report for %s", time.Now().Format("2006-01-02"))
	if emailDryRun {
		fmt.Printf("Would send to %s: %s\n\n%s", to, subject, body.String())
		return nil
	}

	message := mail.NewSingleEmail(
		mail.NewEmail("spotify-history-tools", emailFrom),
		subject,
		mail.NewEmail("", to),
		body.String(),
		"<pre>"+body.String()+"</pre>",
	)
	client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendEmail: status %d: %s", response.StatusCode, response.Body)
	}

	fmt.Printf("Sent report to %s\n", to)
	return nil
}
