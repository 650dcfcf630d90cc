package delegate

import "encoding/json"

// harnessScript is the fixed extraction harness handed to the Python
// interpreter. It reads one JSON request from stdin and writes one JSON
// response to stdout, so caller-supplied text never touches the script
// itself. The script bytes are identical for every crawl.
const harnessScript = `import asyncio
import json
import sys


async def run(req):
    from crawl4ai import AsyncWebCrawler
    from crawl4ai.extraction_strategy import (
        JsonCssExtractionStrategy,
        LLMExtractionStrategy,
    )

    strategy = None
    mode = req.get("strategy", "auto")
    if mode == "selector":
        fields = [
            {"name": name, "selector": sel, "type": "text"}
            for name, sel in sorted((req.get("selectors") or {}).items())
        ]
        schema = {
            "name": "document",
            "baseSelector": req.get("base_selector") or "body",
            "fields": fields,
        }
        strategy = JsonCssExtractionStrategy(schema)
    elif mode == "llm":
        strategy = LLMExtractionStrategy(instruction=req.get("instruction", ""))

    async with AsyncWebCrawler(verbose=False) as crawler:
        return await crawler.arun(
            url=req["url"],
            extraction_strategy=strategy,
            bypass_cache=True,
        )


def main():
    req = json.load(sys.stdin)
    result = asyncio.get_event_loop().run_until_complete(run(req))

    out = {
        "success": bool(result.success),
        "url": req.get("url", ""),
        "title": (result.metadata or {}).get("title", ""),
        "content": result.markdown or "",
    }
    if result.extracted_content:
        try:
            out["extracted"] = json.loads(result.extracted_content)
        except ValueError:
            out["extracted"] = result.extracted_content
    if not result.success:
        out["error"] = result.error_message or "crawl failed"

    json.dump(out, sys.stdout)
    sys.stdout.write("\n")


if __name__ == "__main__":
    main()
`

// harnessRequest is the per-call parameter block serialized onto the harness
// process's stdin.
type harnessRequest struct {
	URL          string            `json:"url"`
	Strategy     string            `json:"strategy"`
	Instruction  string            `json:"instruction,omitempty"`
	Selectors    map[string]string `json:"selectors,omitempty"`
	BaseSelector string            `json:"base_selector,omitempty"`
}

// harnessResponse is the single JSON object the harness writes to stdout.
type harnessResponse struct {
	Success   bool            `json:"success"`
	URL       string          `json:"url"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Extracted json.RawMessage `json:"extracted,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Extraction strategy names understood by the harness.
const (
	strategyAuto     = "auto"
	strategyLLM      = "llm"
	strategySelector = "selector"
)
