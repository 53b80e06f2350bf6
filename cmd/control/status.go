/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package control

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenlab/go-dmm/pkg/command"
)

func NewStatusCommand() *cobra.Command {
	var host string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the running acquisition",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(host)
			status, err := apiClient.Status()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "state: %s samples: %d of %d\n",
				status.State, status.SamplesDone, status.SamplesExpected)
			return nil
		},
	}
	cmd.Flags().StringVar(&host, HostOptionName, DefaultApiHost, "Host running the acquisition")
	return cmd
}
