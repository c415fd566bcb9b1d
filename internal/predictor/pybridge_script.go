// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package predictor

// bridgeScript is rendered with text/template and run by the configured
// interpreter. GET answers "OK" once the model is loaded; POST takes one
// payload object and answers the raw prediction as text.
const bridgeScript = `
import json

import joblib
import pandas as pd

from http.server import BaseHTTPRequestHandler, HTTPServer

################################################################################

MODEL = joblib.load({{ pyq .Model }})
{{- if .Prepro }}
PREPRO = joblib.load({{ pyq .Prepro }})
{{- else }}
PREPRO = None
{{- end }}

################################################################################

class S(BaseHTTPRequestHandler):
    def _reply(self, code, body):
        self.send_response(code)
        self.send_header('Content-type', 'text/plain')
        self.end_headers()
        self.wfile.write(body.encode('utf-8'))

    def do_GET(self):
        self._reply(200, "OK\n")

    def do_POST(self):
        try:
            con_len = int(self.headers.get('Content-Length'))
            row = json.loads(self.rfile.read(con_len).decode('utf-8'))
            frame = pd.DataFrame(row, index=[0])
            if PREPRO is not None:
                frame = PREPRO.transform(frame)
            pred = MODEL.predict(frame)
            self._reply(200, repr(float(pred[0])))
        except Exception as exc:
            self._reply(400, str(exc))

    def log_message(self, format, *args):
        return

################################################################################

def run(addr={{ pyq .Addr }}, port={{ .Port }}):
    httpd = HTTPServer((addr, port), S)
    try:
        httpd.serve_forever()
    except KeyboardInterrupt:
        pass
    httpd.server_close()

################################################################################

run()
`
