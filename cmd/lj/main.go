package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) postForm(path string, form url.Values) (int, []byte, error) {
	endpoint := strings.TrimRight(c.BaseURL, "/") + path
	resp, err := c.HTTP.PostForm(endpoint, form)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func main() {
	var (
		baseURL = envOr("LITTLEJOHN_URL", "http://localhost:8080")
		out     = envOr("LITTLEJOHN_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "lj",
		Short: "CLI para LittleJohn (endpoint de tokens OAuth2)",
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env LITTLEJOHN_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{BaseURL: baseURL, OutFormat: out, HTTP: &http.Client{Timeout: timeout}}

	var (
		username     string
		userPassword string
		clientID     string
		clientSecret string
		scope        string
	)
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Pide un access token con el grant password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || userPassword == "" {
				return fmt.Errorf("faltan credenciales (--username y --password)")
			}
			if clientID == "" {
				return fmt.Errorf("falta --client-id")
			}
			cl.BaseURL = baseURL
			cl.OutFormat = out

			form := url.Values{}
			form.Set("grant_type", "password")
			form.Set("username", username)
			form.Set("password", userPassword)
			form.Set("client_id", clientID)
			if clientSecret != "" {
				form.Set("client_secret", clientSecret)
			}
			if scope != "" {
				form.Set("scope", scope)
			}

			status, body, err := cl.postForm("/oauth2/token", form)
			if err != nil {
				return err
			}
			cl.print(status, body)
			if status != http.StatusOK {
				os.Exit(1)
			}
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&username, "username", "", "usuario (o email) del resource owner")
	tokenCmd.Flags().StringVar(&userPassword, "password", "", "contraseña del resource owner")
	tokenCmd.Flags().StringVar(&clientID, "client-id", "", "client_id registrado")
	tokenCmd.Flags().StringVar(&clientSecret, "client-secret", "", "client_secret (clients confidenciales)")
	tokenCmd.Flags().StringVar(&scope, "scope", "", "scopes separados por espacio")
	root.AddCommand(tokenCmd)

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Chequea /healthz del servicio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl.BaseURL = baseURL
			cl.OutFormat = out
			resp, err := cl.HTTP.Get(strings.TrimRight(baseURL, "/") + "/healthz")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			b, _ := io.ReadAll(resp.Body)
			cl.print(resp.StatusCode, b)
			return nil
		},
	}
	root.AddCommand(healthCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
