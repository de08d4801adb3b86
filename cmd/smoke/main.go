// Command smoke walks a running server through the whole case file flow:
// create, open, upload, process, then ask a question.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

var baseURL string

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func prettyPrint(raw []byte) {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(out.String())
}

func do(req *http.Request) (*http.Response, []byte, error) {
	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return resp, body, err
}

func sendJSON(method, url string, body interface{}) (*http.Response, []byte, error) {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, baseURL+url, r)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req)
}

func sendFile(url, path string) (*http.Response, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, nil, err
	}
	w.Close()

	req, err := http.NewRequest(http.MethodPost, baseURL+url, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return do(req)
}

// step runs one request, prints it and decodes the envelope data into out.
func step(title string, out interface{}, call func() (*http.Response, []byte, error)) {
	color.Yellow("\n%s", title)
	resp, body, err := call()
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
		prettyPrint(body)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	prettyPrint(body)

	if out == nil {
		return
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		color.Red("Bad envelope: %v", err)
		os.Exit(1)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		color.Red("Bad data: %v", err)
		os.Exit(1)
	}
}

func main() {
	flag.StringVar(&baseURL, "url", "http://localhost:3000/api", "API base URL")
	pdfPath := flag.String("file", "", "PDF to upload")
	question := flag.String("q", "What are the key dates of this case?", "question to ask")
	flag.Parse()

	if *pdfPath == "" {
		color.Red("usage: smoke -file contract.pdf [-q question]")
		os.Exit(2)
	}

	color.Cyan("🚀 Starting case file smoke test against %s\n", baseURL)

	var created struct {
		Id string `json:"id"`
	}
	step("1. Create case file", &created, func() (*http.Response, []byte, error) {
		return sendJSON(http.MethodPost, "/dossier/v1", map[string]string{
			"name":     "Smoke test " + time.Now().Format(time.RFC3339),
			"category": "General",
		})
	})

	var ws struct {
		Id string `json:"id"`
	}
	step("2. Open workspace", &ws, func() (*http.Response, []byte, error) {
		return sendJSON(http.MethodPost, "/workspace/v1", map[string]string{"dossier_id": created.Id})
	})

	var doc struct {
		Id string `json:"id"`
	}
	step("3. Upload document", &doc, func() (*http.Response, []byte, error) {
		return sendFile("/workspace/v1/"+ws.Id+"/documents", *pdfPath)
	})

	step("4. Request processing", nil, func() (*http.Response, []byte, error) {
		return sendJSON(http.MethodPost, "/workspace/v1/"+ws.Id+"/documents/"+doc.Id+"/process", nil)
	})

	color.Yellow("\n5. Waiting for extraction")
	deadline := time.Now().Add(10 * time.Minute)
	for time.Now().Before(deadline) {
		var view struct {
			Documents []struct {
				Id     string `json:"id"`
				Status string `json:"status"`
			} `json:"documents"`
			Timeline []json.RawMessage `json:"timeline"`
		}
		_, body, err := sendJSON(http.MethodPost, "/workspace/v1/"+ws.Id+"/refresh", nil)
		if err == nil {
			var env envelope
			if json.Unmarshal(body, &env) == nil && json.Unmarshal(env.Data, &view) == nil {
				for _, d := range view.Documents {
					if d.Id != doc.Id {
						continue
					}
					fmt.Printf("status=%s timeline=%d\n", d.Status, len(view.Timeline))
					if d.Status == "processed" || d.Status == "failed" {
						deadline = time.Time{}
					}
				}
			}
		}
		if deadline.IsZero() {
			break
		}
		time.Sleep(3 * time.Second)
	}

	step("6. Ask a question", nil, func() (*http.Response, []byte, error) {
		return sendJSON(http.MethodPost, "/workspace/v1/"+ws.Id+"/chat", map[string]string{"question": *question})
	})

	step("7. Final view", nil, func() (*http.Response, []byte, error) {
		return sendJSON(http.MethodGet, "/workspace/v1/"+ws.Id, nil)
	})

	step("8. Close workspace", nil, func() (*http.Response, []byte, error) {
		return sendJSON(http.MethodDelete, "/workspace/v1/"+ws.Id, nil)
	})

	color.Cyan("\n✅ Smoke test finished")
}
