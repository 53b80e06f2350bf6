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
	"github.com/spf13/cobra"

	"github.com/greenlab/go-dmm/pkg/command"
)

func NewAbortCommand() *cobra.Command {
	var host string
	cmd := &cobra.Command{
		Use:   "abort",
		Short: "Cancel the running acquisition",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(host)
			return apiClient.Abort()
		},
	}
	cmd.Flags().StringVar(&host, HostOptionName, DefaultApiHost, "Host running the acquisition")
	return cmd
}
