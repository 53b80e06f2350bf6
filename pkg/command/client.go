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

package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"github.com/greenlab/go-dmm/pkg/srv"
)

type ApiClient struct {
	ApiPrefix string
}

func NewApiClient(host string) *ApiClient {
	return &ApiClient{
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", host, srv.ApiPort),
	}
}

// Status requests the state of the running acquisition
func (c *ApiClient) Status() (*srv.Status, error) {
	r, err := req.Get(fmt.Sprintf("%s/status", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	status := &srv.Status{}
	err = r.ToJSON(status)
	if err != nil {
		return nil, err
	}
	return status, nil
}

// Abort requests cancellation of the running acquisition
func (c *ApiClient) Abort() error {
	r, err := req.Get(fmt.Sprintf("%s/abort", c.ApiPrefix))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}
