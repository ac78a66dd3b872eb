// Package devserver serves the Lambda handler over plain HTTP for local
// development.
package devserver

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// LambdaHandler matches the API Gateway proxy handler signature.
type LambdaHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewRouter forwards every request except the health check to handle, which
// owns routing just as it does behind API Gateway.
func NewRouter(handle LambdaHandler, logger *zap.Logger) (*gin.Engine, error) {
	if handle == nil {
		return nil, errors.New("devserver: handler must not be nil")
	}
	if logger == nil {
		return nil, errors.New("devserver: logger must not be nil")
	}
	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.NoRoute(proxy(handle, logger))
	return r, nil
}

func proxy(handle LambdaHandler, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := toProxyRequest(c.Request)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_INPUT"})
			return
		}
		resp, err := handle(c.Request.Context(), event)
		if err != nil {
			logger.Error("lambda handler failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "INTERNAL_ERROR"})
			return
		}
		writeProxyResponse(c, resp)
	}
}

func toProxyRequest(r *http.Request) (events.APIGatewayProxyRequest, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
		if err != nil {
			return events.APIGatewayProxyRequest{}, err
		}
		if len(body) > maxBodyBytes {
			return events.APIGatewayProxyRequest{}, errors.New("devserver: request body too large")
		}
	}

	headers := make(map[string]string, len(r.Header))
	for k, vs := range r.Header {
		if len(vs) > 0 {
			headers[k] = vs[0]
		}
	}
	query := r.URL.Query()
	params := make(map[string]string, len(query))
	for k, vs := range query {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod:                      r.Method,
		Path:                            r.URL.Path,
		Headers:                         headers,
		MultiValueHeaders:               r.Header.Clone(),
		QueryStringParameters:           params,
		MultiValueQueryStringParameters: query,
		Body:                            string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
			Identity:   events.APIGatewayRequestIdentity{SourceIP: clientIP(r)},
		},
	}, nil
}

func writeProxyResponse(c *gin.Context, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	for k, vs := range resp.MultiValueHeaders {
		for _, v := range vs {
			c.Writer.Header().Add(k, v)
		}
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		if decoded, err := base64.StdEncoding.DecodeString(resp.Body); err == nil {
			body = decoded
		}
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	c.Data(status, c.Writer.Header().Get("Content-Type"), body)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
